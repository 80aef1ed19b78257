package transcribe

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/pearl-backend/internal/modules/evaluation/gateway"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

// Transcriber is the slice of the model gateway the service needs.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type Result struct {
	// Transcript is nil when no usable transcript was produced.
	Transcript *string
	IsDegraded bool
}

type Service struct {
	gw  Transcriber
	log *logger.Logger
}

func NewService(gw Transcriber, baseLog *logger.Logger) *Service {
	return &Service{gw: gw, log: baseLog.With("service", "Transcription")}
}

// Transcribe never fails; missing credentials, timeouts and upstream errors
// all yield a nil transcript with IsDegraded set.
func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType string) Result {
	start := time.Now()
	text, err := s.gw.Transcribe(ctx, audio, mimeType)
	if err != nil {
		s.log.Warn("transcription degraded",
			"call_site", string(gateway.SiteTranscription),
			"reason", string(gateway.ReasonOf(err)),
			"error", err.Error(),
			"audio_bytes", len(audio),
			"mime_type", mimeType,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return Result{IsDegraded: true}
	}
	text = strings.TrimSpace(text)
	return Result{Transcript: &text}
}
