package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pearl-backend/internal/http/response"
	"github.com/yungbote/pearl-backend/internal/modules/evaluation/transcribe"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/apierr"
)

const DefaultMaxAudioBytes = 10 << 20

type AudioTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) transcribe.Result
}

type TranscriptionHandler struct {
	svc           AudioTranscriber
	maxAudioBytes int64
}

func NewTranscriptionHandler(svc AudioTranscriber, maxAudioBytes int64) *TranscriptionHandler {
	if maxAudioBytes <= 0 {
		maxAudioBytes = DefaultMaxAudioBytes
	}
	return &TranscriptionHandler{svc: svc, maxAudioBytes: maxAudioBytes}
}

type transcriptionResponse struct {
	Transcript *string `json:"transcript"`
	IsDegraded bool    `json:"isDegraded"`
}

// POST /transcriptions
//
// Accepts a multipart form with an "audio" file, or a raw body with an audio/*
// content type.
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	audio, mimeType, err := h.readAudio(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res := h.svc.Transcribe(c.Request.Context(), audio, mimeType)
	result := "ok"
	if res.IsDegraded {
		result = "degraded"
	}
	observability.Current().IncEvaluation("transcription", result)
	response.RespondOK(c, transcriptionResponse{Transcript: res.Transcript, IsDegraded: res.IsDegraded})
}

func (h *TranscriptionHandler) readAudio(c *gin.Context) ([]byte, string, error) {
	// Multipart framing needs some headroom over the audio itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxAudioBytes+64<<10)

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	var (
		audio    []byte
		mimeType string
		err      error
	)
	switch {
	case mediaType == "multipart/form-data":
		fh, ferr := c.FormFile("audio")
		if ferr != nil {
			return nil, "", h.readError(ferr, "audio file field is required")
		}
		if fh.Size > h.maxAudioBytes {
			return nil, "", tooLarge(h.maxAudioBytes)
		}
		f, ferr := fh.Open()
		if ferr != nil {
			return nil, "", apierr.BadRequest("invalid_request", fmt.Errorf("open audio: %w", ferr))
		}
		defer f.Close()
		audio, err = io.ReadAll(f)
		mimeType = fh.Header.Get("Content-Type")
	case strings.HasPrefix(mediaType, "audio/"):
		audio, err = io.ReadAll(c.Request.Body)
		mimeType = mediaType
	default:
		return nil, "", apierr.New(http.StatusUnsupportedMediaType, "unsupported_media_type",
			errors.New("send multipart/form-data with an audio field or an audio/* body"))
	}
	if err != nil {
		return nil, "", h.readError(err, "could not read audio")
	}
	if int64(len(audio)) > h.maxAudioBytes {
		return nil, "", tooLarge(h.maxAudioBytes)
	}
	if len(audio) == 0 {
		return nil, "", apierr.BadRequest("invalid_request", errors.New("audio is empty"))
	}
	return audio, mimeType, nil
}

func (h *TranscriptionHandler) readError(err error, msg string) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return tooLarge(h.maxAudioBytes)
	}
	return apierr.BadRequest("invalid_request", fmt.Errorf("%s: %w", msg, err))
}

func tooLarge(limit int64) error {
	return apierr.New(http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Errorf("audio exceeds %d bytes", limit))
}
