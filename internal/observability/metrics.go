package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/pearl-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	modelCalls   *CounterVec
	modelLatency *HistogramVec
	evaluations  *CounterVec
}

var (
	initMu   sync.Mutex
	instance *Metrics
)

// Current returns the process metrics, or nil when metrics are disabled. All
// methods are safe on a nil receiver.
func Current() *Metrics {
	initMu.Lock()
	defer initMu.Unlock()
	return instance
}

func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initMu.Lock()
	defer initMu.Unlock()
	if instance != nil {
		return instance
	}
	instance = NewMetrics()
	if log != nil {
		log.Info("metrics initialized")
	}
	return instance
}

// NewMetrics builds an unregistered set; Init installs the process-wide one.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("pearl_api_requests_total", "HTTP requests by route and status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("pearl_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16}),
		apiInflight: NewGauge("pearl_api_inflight_requests", "HTTP requests in flight."),
		modelCalls:  NewCounterVec("pearl_model_calls_total", "Upstream model calls by call site and outcome.", []string{"call_site", "outcome"}),
		modelLatency: NewHistogramVec("pearl_model_call_duration_seconds", "Time the caller waited on an upstream call.", []string{"call_site"},
			[]float64{0.1, 0.25, 0.5, 1, 2, 3, 6, 8, 15}),
		evaluations: NewCounterVec("pearl_evaluations_total", "Evaluations by kind and result.", []string{"kind", "result"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.modelCalls, m.modelLatency, m.evaluations,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveModelCall records one gateway call. outcome is "ok" or a degrade reason.
func (m *Metrics) ObserveModelCall(site, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "ok"
	}
	m.modelCalls.Inc(site, outcome)
	m.modelLatency.Observe(dur.Seconds(), site)
}

// IncEvaluation counts a finished evaluation, e.g. ("submission", "degraded").
func (m *Metrics) IncEvaluation(kind, result string) {
	if m == nil {
		return
	}
	m.evaluations.Inc(kind, result)
}
