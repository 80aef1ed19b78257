package observability

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/healthcheck", "200", time.Millisecond)
	m.ObserveModelCall("rubric", "timeout", time.Second)
	m.IncEvaluation("submission", "scored")
	m.ApiInflightInc()
	m.ApiInflightDec()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rec.Code)
	}
}

func TestModelCallCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveModelCall("annotation", "", 200*time.Millisecond)
	m.ObserveModelCall("annotation", "timeout", 6*time.Second)
	m.ObserveModelCall("annotation", "timeout", 6*time.Second)

	if got := m.modelCalls.Value("annotation", "ok"); got != 1 {
		t.Fatalf("ok calls=%v", got)
	}
	if got := m.modelCalls.Value("annotation", "timeout"); got != 2 {
		t.Fatalf("timeout calls=%v", got)
	}
	if got := m.modelLatency.Count("annotation"); got != 3 {
		t.Fatalf("latency observations=%d", got)
	}
}

func TestWritePrometheusFormat(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/grammar-check", "200", 300*time.Millisecond)
	m.ApiInflightInc()
	m.IncEvaluation("grammar", "clean")

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE pearl_api_requests_total counter",
		`pearl_api_requests_total{method="POST",route="/grammar-check",status="200"} 1.000000`,
		`pearl_api_request_duration_seconds_bucket{method="POST",route="/grammar-check",le="0.25"} 0`,
		`pearl_api_request_duration_seconds_bucket{method="POST",route="/grammar-check",le="0.5"} 1`,
		`pearl_api_request_duration_seconds_bucket{method="POST",route="/grammar-check",le="+Inf"} 1`,
		"pearl_api_inflight_requests 1.000000",
		`pearl_evaluations_total{kind="grammar",result="clean"} 1.000000`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	if got != `{a="x\"y",b="unknown"}` {
		t.Fatalf("labelString=%s", got)
	}
}
