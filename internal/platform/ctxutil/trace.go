package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}
type learnerKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

// WithLearnerID records the authenticated learner for the request.
func WithLearnerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, learnerKey{}, id)
}

// LearnerID returns the authenticated learner, or uuid.Nil for anonymous requests.
func LearnerID(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if id, ok := ctx.Value(learnerKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
