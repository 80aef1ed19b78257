package app

import (
	"github.com/yungbote/pearl-backend/internal/data/db"
	pearlhttp "github.com/yungbote/pearl-backend/internal/http"
	httpH "github.com/yungbote/pearl-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pearl-backend/internal/http/middleware"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health        *httpH.HealthHandler
	Grammar       *httpH.GrammarHandler
	Submission    *httpH.SubmissionHandler
	Remark        *httpH.RemarkHandler
	Transcription *httpH.TranscriptionHandler
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; all requests are anonymous and nothing is persisted")
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireHandlers(log *logger.Logger, cfg Config, database *db.Service, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:        httpH.NewHealthHandler(database),
		Grammar:       httpH.NewGrammarHandler(services.GrammarCheck, cfg.MaxTextBytes),
		Submission:    httpH.NewSubmissionHandler(services.Rubric, cfg.MaxTextBytes),
		Remark:        httpH.NewRemarkHandler(services.Remark, cfg.MaxTextBytes),
		Transcription: httpH.NewTranscriptionHandler(services.Transcription, cfg.MaxAudioBytes),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *pearlhttp.Server {
	return pearlhttp.NewServer(pearlhttp.RouterConfig{
		Log:                  log,
		ServiceName:          cfg.ServiceName,
		CORSOrigins:          cfg.CORSOrigins,
		Metrics:              metrics,
		MetricsRoute:         cfg.Metrics.Addr == "",
		AuthMiddleware:       middleware.Auth,
		HealthHandler:        handlers.Health,
		GrammarHandler:       handlers.Grammar,
		SubmissionHandler:    handlers.Submission,
		RemarkHandler:        handlers.Remark,
		TranscriptionHandler: handlers.Transcription,
	})
}
