package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/yungbote/pearl-backend/internal/data/db"
	pearlhttp "github.com/yungbote/pearl-backend/internal/http"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

const closeTimeout = 10 * time.Second

type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *pearlhttp.Server

	metrics      *observability.Metrics
	otelShutdown func(context.Context) error
}

// New loads configuration from the environment and wires the application.
func New() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(context.Background(), cfg)
}

func NewWithConfig(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     cfg.Otel.Headers,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})
	metrics := observability.Init(log, cfg.Metrics.Enabled)

	database, err := db.Open(db.Config{
		PostgresDSN:  cfg.DB.PostgresDSN,
		SQLitePath:   cfg.DB.SQLitePath,
		MaxOpenConns: cfg.DB.MaxOpenConns,
	}, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = database.Close()
		log.Sync()
		return nil, err
	}
	reposet := wireRepos(database.DB(), log)
	serviceset := wireServices(log, clients, reposet)
	handlerset := wireHandlers(log, cfg, database, serviceset)
	middleware := wireMiddleware(log, cfg)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           database,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Server:       server,
		metrics:      metrics,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx ends.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Cfg.Metrics.Addr != "" {
		a.metrics.StartServer(ctx, a.Log, a.Cfg.Metrics.Addr)
	}
	return a.Server.Run(ctx, net.JoinHostPort("", a.Cfg.Port))
}

// Close drains abandoned model calls, then releases clients, tracing and the
// database.
func (a *App) Close() {
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := a.Clients.Gateway.Close(ctx); err != nil && a.Log != nil {
		a.Log.Warn("abandoned model calls still running at shutdown", "error", err)
	}
	if err := a.Clients.Speech.Close(); err != nil && a.Log != nil {
		a.Log.Warn("speech client close failed", "error", err)
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && a.Log != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
