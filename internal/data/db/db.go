package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Config struct {
	// PostgresDSN selects Postgres when set.
	PostgresDSN string
	// SQLitePath is used when PostgresDSN is empty. ":memory:" gives a private in-memory database.
	SQLitePath   string
	MaxOpenConns int
	Silent       bool
}

type Service struct {
	db      *gorm.DB
	dialect string
	log     *logger.Logger
}

func Open(cfg Config, baseLog *logger.Logger) (*Service, error) {
	serviceLog := baseLog.With("service", "DBService")

	level := gormLogger.Warn
	if cfg.Silent {
		level = gormLogger.Silent
	}
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	}

	var (
		dialector gorm.Dialector
		dialect   string
	)
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		dialector, dialect = postgres.Open(dsn), "postgres"
	} else {
		path := strings.TrimSpace(cfg.SQLitePath)
		if path == "" {
			path = "pearl.db"
		}
		dialector, dialect = sqlite.Open(path), "sqlite"
	}

	gdb, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if dialect == "sqlite" {
		// A single connection keeps in-memory databases shared and serializes writers.
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	serviceLog.Info("database connected", "dialect", dialect)
	return &Service{db: gdb, dialect: dialect, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() string { return s.dialect }

func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
