package gcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type SpeechConfig struct {
	CredentialsFile string
	CredentialsJSON string
	LanguageCode    string
	Model           string
}

// Speech transcribes short learner recordings with one synchronous Recognize
// call. It implements the gateway's Transcriber.
type Speech struct {
	log    *logger.Logger
	client *speech.Client
	cfg    SpeechConfig
}

var ErrEmptyAudio = errors.New("empty audio")

func NewSpeech(ctx context.Context, log *logger.Logger, cfg SpeechConfig) (*Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(ctx, ClientOptions(cfg.CredentialsFile, cfg.CredentialsJSON)...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &Speech{log: log.With("service", "gcp.Speech"), client: c, cfg: cfg}, nil
}

func (s *Speech) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Speech) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	req := &speechpb.RecognizeRequest{
		Config: buildRecognitionConfig(mimeType, s.cfg),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}
	resp, err := s.client.Recognize(ctx, req)
	if err != nil {
		code := status.Code(err)
		s.log.Debug("speech recognize failed", "grpc_code", code.String(), "audio_bytes", len(audio))
		if code == codes.DeadlineExceeded {
			return "", fmt.Errorf("speech recognize: %w", context.DeadlineExceeded)
		}
		return "", fmt.Errorf("speech recognize (%s): %w", code.String(), err)
	}
	return joinTranscript(resp.GetResults()), nil
}

func buildRecognitionConfig(mimeType string, cfg SpeechConfig) *speechpb.RecognitionConfig {
	lang := strings.TrimSpace(cfg.LanguageCode)
	if lang == "" {
		lang = "en-US"
	}
	return &speechpb.RecognitionConfig{
		LanguageCode:               lang,
		Model:                      strings.TrimSpace(cfg.Model),
		EnableAutomaticPunctuation: true,
		Encoding:                   inferSpeechEncoding(mimeType),
	}
}

func inferSpeechEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.Contains(m, "wav"):
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3"), strings.Contains(m, "mpeg"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

// joinTranscript keeps the top alternative of each result.
func joinTranscript(results []*speechpb.SpeechRecognitionResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		alts := r.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
