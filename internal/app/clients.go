package app

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/pearl-backend/internal/inference/engine"
	"github.com/yungbote/pearl-backend/internal/inference/engine/mock"
	"github.com/yungbote/pearl-backend/internal/inference/engine/oaihttp"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/platform/gcp"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Clients struct {
	Engine  engine.Engine
	Speech  *gcp.Speech
	Gateway *gateway.Gateway
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var eng engine.Engine
	switch cfg.resolvedEngine() {
	case EngineOAIHTTP:
		e, err := oaihttp.New(oaihttp.Config{
			BaseURL:             cfg.Model.BaseURL,
			APIKey:              cfg.Model.APIKey,
			ChatCompletionsPath: cfg.Model.ChatPath,
			Timeout:             cfg.Model.Timeout,
			JSONMode:            cfg.Model.JSONMode,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init model engine: %w", err)
		}
		eng = e
	case EngineMock:
		log.Warn("using mock model engine")
		eng = mock.New()
	default:
		log.Warn("no model credentials configured; evaluations will degrade")
	}

	var speech *gcp.Speech
	var transcriber gateway.Transcriber
	if cfg.Speech.Enabled {
		s, err := gcp.NewSpeech(ctx, log, gcp.SpeechConfig{
			CredentialsFile: cfg.Speech.CredentialsFile,
			CredentialsJSON: cfg.Speech.CredentialsJSON,
			LanguageCode:    cfg.Speech.LanguageCode,
			Model:           cfg.Speech.Model,
		})
		if err != nil {
			// Transcription degrades rather than blocking startup.
			log.Warn("speech client unavailable; transcription will degrade", "error", err)
		} else {
			speech = s
			transcriber = s
		}
	}

	gw := gateway.New(eng, transcriber, gateway.Config{
		Model:       cfg.Model.Name,
		Temperature: cfg.Model.Temperature,
		Deadlines: map[gateway.Site]time.Duration{
			gateway.SiteRemark:        cfg.Gateway.RemarkDeadline,
			gateway.SiteAnnotation:    cfg.Gateway.AnnotationDeadline,
			gateway.SiteRubric:        cfg.Gateway.RubricDeadline,
			gateway.SiteTranscription: cfg.Gateway.TranscriptionDeadline,
		},
		AbandonAfter: cfg.Gateway.AbandonAfter,
		MaxInFlight:  cfg.Gateway.MaxInFlight,
	}, log)

	return Clients{Engine: eng, Speech: speech, Gateway: gw}, nil
}
