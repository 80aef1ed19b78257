package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yungbote/pearl-backend/internal/inference/engine"
)

// Engine is a deterministic scripted engine for local development and tests.
// Replies are keyed by JSON schema name; unknown schemas get a neutral reply.
type Engine struct {
	// Delay is slept before replying unless ctx ends first.
	Delay time.Duration
	// Err, when set, is returned instead of a reply.
	Err error

	mu      sync.RWMutex
	replies map[string]string
	calls   atomic.Int64
}

func New() *Engine {
	return &Engine{replies: map[string]string{}}
}

// WithReply scripts the raw completion returned for a schema name.
func (e *Engine) WithReply(schemaName, reply string) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.replies == nil {
		e.replies = map[string]string{}
	}
	e.replies[schemaName] = reply
	return e
}

func (e *Engine) Calls() int64 { return e.calls.Load() }

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	_ = model
	e.calls.Add(1)

	if e.Delay > 0 {
		t := time.NewTimer(e.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.C:
		}
	}
	if e.Err != nil {
		return "", e.Err
	}

	if opts.JSONSchema == nil {
		var user string
		for i := len(messages) - 1; i >= 0; i-- {
			if strings.EqualFold(messages[i].Role, "user") {
				user = messages[i].Content
				break
			}
		}
		if strings.TrimSpace(user) == "" {
			return "mock: ok", nil
		}
		return fmt.Sprintf("mock: %s", user), nil
	}

	e.mu.RLock()
	reply, ok := e.replies[opts.JSONSchema.Name]
	e.mu.RUnlock()
	if ok {
		return reply, nil
	}
	return defaultReply(opts.JSONSchema.Name), nil
}

func defaultReply(schemaName string) string {
	var obj map[string]any
	switch schemaName {
	case "grammar_check":
		obj = map[string]any{"errors": []any{}}
	case "rubric_score":
		obj = map[string]any{
			"grammarScore": 0.75,
			"grammarNotes": []string{},
			"vocabScore":   0.75,
			"taskScore":    0.75,
			"taskNotes":    "",
			"feedback":     "Solid work. Keep your reports this clear.",
		}
	case "contextual_remark":
		obj = map[string]any{"remark": "Noted. Carry on, cadet."}
	default:
		obj = map[string]any{"ok": true, "schema": schemaName}
	}
	b, _ := json.Marshal(obj)
	return string(b)
}
