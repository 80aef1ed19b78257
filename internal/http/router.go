package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pearl-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pearl-backend/internal/http/middleware"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	// MetricsRoute serves GET /metrics on this router.
	MetricsRoute bool

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler        *httpH.HealthHandler
	GrammarHandler       *httpH.GrammarHandler
	SubmissionHandler    *httpH.SubmissionHandler
	RemarkHandler        *httpH.RemarkHandler
	TranscriptionHandler *httpH.TranscriptionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "pearl"
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil && cfg.MetricsRoute {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Evaluation routes work anonymously; a valid token adds persistence.
	eval := r.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			eval.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		if cfg.GrammarHandler != nil {
			eval.POST("/grammar-check", cfg.GrammarHandler.Check)
		}
		if cfg.SubmissionHandler != nil {
			eval.POST("/submissions/evaluate", cfg.SubmissionHandler.Evaluate)
		}
		if cfg.RemarkHandler != nil {
			eval.POST("/pearl/remark", cfg.RemarkHandler.Remark)
		}
		if cfg.TranscriptionHandler != nil {
			eval.POST("/transcriptions", cfg.TranscriptionHandler.Transcribe)
		}
	}

	return r
}
