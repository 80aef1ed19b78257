package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/pearl-backend/internal/inference/engine"
	"github.com/yungbote/pearl-backend/internal/observability"
	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

// Site names a call site. Each site has its own deadline.
type Site string

const (
	SiteRemark        Site = "remark"
	SiteAnnotation    Site = "annotation"
	SiteRubric        Site = "rubric"
	SiteTranscription Site = "transcription"
)

func DefaultDeadlines() map[Site]time.Duration {
	return map[Site]time.Duration{
		SiteRemark:        3 * time.Second,
		SiteAnnotation:    6 * time.Second,
		SiteRubric:        8 * time.Second,
		SiteTranscription: 15 * time.Second,
	}
}

const (
	defaultAbandonAfter = 30 * time.Second
	defaultMaxInFlight  = 64
	fallbackDeadline    = 6 * time.Second
)

// Transcriber turns recorded audio into text with a single upstream request.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

type Config struct {
	Model       string
	Temperature float64
	Deadlines   map[Site]time.Duration
	// AbandonAfter caps how long a call may keep running after its caller
	// stopped waiting for it.
	AbandonAfter time.Duration
	// MaxInFlight bounds concurrent upstream calls, abandoned ones included.
	MaxInFlight int64
}

type Request struct {
	Site   Site
	System string
	User   string
	Schema *engine.JSONSchema
}

// Gateway performs exactly one upstream call per request and races it
// against the call site's deadline. A call that loses the race is left to
// finish on its own, bounded by AbandonAfter; it is never retried.
type Gateway struct {
	engine      engine.Engine
	transcriber Transcriber
	cfg         Config

	sem    *semaphore.Weighted
	wg     sync.WaitGroup
	tracer trace.Tracer
	log    *logger.Logger
}

// New builds a gateway. A nil engine or transcriber is valid and makes the
// matching calls fail fast with ReasonNoCredentials.
func New(eng engine.Engine, transcriber Transcriber, cfg Config, baseLog *logger.Logger) *Gateway {
	deadlines := DefaultDeadlines()
	for site, d := range cfg.Deadlines {
		if d > 0 {
			deadlines[site] = d
		}
	}
	cfg.Deadlines = deadlines
	if cfg.AbandonAfter <= 0 {
		cfg.AbandonAfter = defaultAbandonAfter
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = defaultMaxInFlight
	}
	return &Gateway{
		engine:      eng,
		transcriber: transcriber,
		cfg:         cfg,
		sem:         semaphore.NewWeighted(cfg.MaxInFlight),
		tracer:      otel.Tracer("pearl/gateway"),
		log:         baseLog.With("service", "ModelGateway"),
	}
}

func (g *Gateway) Deadline(site Site) time.Duration {
	if d, ok := g.cfg.Deadlines[site]; ok && d > 0 {
		return d
	}
	return fallbackDeadline
}

// Configured reports whether an upstream engine is available.
func (g *Gateway) Configured() bool { return g != nil && g.engine != nil }

// Complete sends one system+user exchange and returns the raw reply text.
func (g *Gateway) Complete(ctx context.Context, req Request) (string, error) {
	site := req.Site
	if site == "" {
		site = SiteAnnotation
	}
	if !g.Configured() {
		return "", g.finish(ctx, site, time.Now(), newError(site, ReasonNoCredentials, ErrNoEngine))
	}
	messages := []engine.Message{
		{Role: "system", Content: req.System},
		{Role: "user", Content: req.User},
	}
	opts := engine.GenerateOptions{Temperature: g.cfg.Temperature, JSONSchema: req.Schema}
	return g.race(ctx, site, func(callCtx context.Context) (string, error) {
		return g.engine.GenerateText(callCtx, g.cfg.Model, messages, opts)
	})
}

// Transcribe runs speech-to-text at the transcription call site.
func (g *Gateway) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	site := SiteTranscription
	if g == nil || g.transcriber == nil {
		return "", g.finish(ctx, site, time.Now(), newError(site, ReasonNoCredentials, ErrNoTranscriber))
	}
	return g.race(ctx, site, func(callCtx context.Context) (string, error) {
		return g.transcriber.Transcribe(callCtx, audio, mimeType)
	})
}

type result struct {
	text string
	err  error
}

func (g *Gateway) race(ctx context.Context, site Site, call func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	deadline := g.Deadline(site)
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	// Waiting for a slot is part of the deadline.
	acquireCtx, cancelAcquire := context.WithTimeout(ctx, deadline)
	err := g.sem.Acquire(acquireCtx, 1)
	cancelAcquire()
	if err != nil {
		return "", g.finish(ctx, site, start, newError(site, ReasonTimeout, fmt.Errorf("waiting for in-flight slot: %w", err)))
	}

	callCtx, cancelCall := context.WithTimeout(context.WithoutCancel(ctx), g.cfg.AbandonAfter)
	results := make(chan result, 1)
	var abandoned atomic.Bool

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.sem.Release(1)
		defer cancelCall()
		defer func() {
			if r := recover(); r != nil {
				results <- result{err: fmt.Errorf("upstream call panicked: %v", r)}
			}
		}()
		text, err := call(callCtx)
		if abandoned.Load() {
			g.log.Debug("abandoned model call finished", "call_site", string(site), "elapsed_ms", time.Since(start).Milliseconds(), "error", errString(err))
		}
		results <- result{text: text, err: err}
	}()

	select {
	case r := <-results:
		if r.err != nil {
			return "", g.finish(ctx, site, start, classify(site, r.err))
		}
		if strings.TrimSpace(r.text) == "" {
			return "", g.finish(ctx, site, start, newError(site, ReasonMalformed, ErrEmptyReply))
		}
		return r.text, g.finish(ctx, site, start, nil)
	case <-timer.C:
		abandoned.Store(true)
		return "", g.finish(ctx, site, start, newError(site, ReasonTimeout, fmt.Errorf("no reply within %s", deadline)))
	case <-ctx.Done():
		abandoned.Store(true)
		return "", g.finish(ctx, site, start, newError(site, ReasonTimeout, ctx.Err()))
	}
}

func classify(site Site, err error) *Error {
	switch {
	case errors.Is(err, engine.ErrMalformedResponse):
		return newError(site, ReasonMalformed, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(site, ReasonTimeout, err)
	default:
		return newError(site, ReasonTransport, err)
	}
}

// finish records the span and debug log for a call and returns err as an error
// (nil stays nil).
func (g *Gateway) finish(ctx context.Context, site Site, start time.Time, gerr *Error) error {
	if g == nil {
		if gerr == nil {
			return nil
		}
		return gerr
	}
	_, span := g.tracer.Start(ctx, "gateway."+string(site), trace.WithTimestamp(start))
	span.SetAttributes(attribute.String("pearl.call_site", string(site)))
	dur := time.Since(start)
	elapsed := dur.Milliseconds()
	if gerr == nil {
		span.SetStatus(codes.Ok, "")
		span.End()
		observability.Current().ObserveModelCall(string(site), "", dur)
		g.log.Debug("model call ok", "call_site", string(site), "elapsed_ms", elapsed)
		return nil
	}
	span.SetAttributes(attribute.String("pearl.degrade_reason", string(gerr.Reason)))
	span.RecordError(gerr)
	span.SetStatus(codes.Error, string(gerr.Reason))
	span.End()
	observability.Current().ObserveModelCall(string(site), string(gerr.Reason), dur)
	g.log.Debug("model call degraded", "call_site", string(site), "reason", string(gerr.Reason), "elapsed_ms", elapsed)
	return gerr
}

// Close waits for abandoned calls to drain or for ctx to end.
func (g *Gateway) Close(ctx context.Context) error {
	if g == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
