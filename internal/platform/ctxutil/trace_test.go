package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("expected nil trace data on bare context")
	}
}

func TestLearnerIDDefaultsToNil(t *testing.T) {
	if got := LearnerID(context.Background()); got != uuid.Nil {
		t.Fatalf("got %s want nil uuid", got)
	}
	id := uuid.New()
	if got := LearnerID(WithLearnerID(context.Background(), id)); got != id {
		t.Fatalf("got %s want %s", got, id)
	}
}
