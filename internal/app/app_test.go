package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/pearl-backend/internal/platform/dbctx"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.Port != "8080" || cfg.MaxTextBytes != 20000 || cfg.Model.Engine != EngineAuto {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.Gateway.RemarkDeadline != 3*time.Second || cfg.Gateway.AnnotationDeadline != 6*time.Second ||
		cfg.Gateway.RubricDeadline != 8*time.Second || cfg.Gateway.TranscriptionDeadline != 15*time.Second {
		t.Fatalf("gateway=%+v", cfg.Gateway)
	}
	if cfg.Model.JSONMode != "prompt" {
		t.Fatalf("json mode=%q", cfg.Model.JSONMode)
	}
	if cfg.Gateway.MaxInFlight != 64 || cfg.Gateway.AbandonAfter != 30*time.Second {
		t.Fatalf("gateway=%+v", cfg.Gateway)
	}
	if cfg.resolvedEngine() != EngineNone {
		t.Fatalf("engine without credentials=%s", cfg.resolvedEngine())
	}
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{
		"MODEL_BASE_URL":             "https://models.example.com",
		"MODEL_API_KEY":              "k",
		"GATEWAY_ANNOTATION_TIMEOUT": "2500ms",
		"GATEWAY_MAX_INFLIGHT":       "8",
		"CORS_ORIGINS":               "https://a.example.com,https://b.example.com",
		"OTEL_ENABLED":               "true",
		"METRICS_ENABLED":            "1",
		"PEARL_SQLITE_PATH":          ":memory:",
	})
	if err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if cfg.resolvedEngine() != EngineOAIHTTP {
		t.Fatalf("engine=%s", cfg.resolvedEngine())
	}
	if cfg.Gateway.AnnotationDeadline != 2500*time.Millisecond || cfg.Gateway.MaxInFlight != 8 {
		t.Fatalf("gateway=%+v", cfg.Gateway)
	}
	if len(cfg.CORSOrigins) != 2 || !cfg.Otel.Enabled || !cfg.Metrics.Enabled || cfg.DB.SQLitePath != ":memory:" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := []map[string]string{
		{"MODEL_ENGINE": "carrier-pigeon"},
		{"MODEL_ENGINE": "oai_http"},
		{"MAX_TEXT_BYTES": "0"},
		{"GATEWAY_RUBRIC_TIMEOUT": "soon"},
	}
	for _, vars := range cases {
		if _, err := LoadConfigFrom(vars); err == nil {
			t.Fatalf("expected error for %v", vars)
		}
	}
}

func newTestApp(t *testing.T, engineName string) *App {
	t.Helper()
	cfg, err := LoadConfigFrom(map[string]string{
		"LOG_MODE":          "test",
		"PEARL_SQLITE_PATH": ":memory:",
		"MODEL_ENGINE":      engineName,
		"JWT_SECRET_KEY":    "app-test-secret",
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a, err := NewWithConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	t.Cleanup(a.Close)
	return a
}

func bearer(t *testing.T, learner uuid.UUID) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": learner.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("app-test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + s
}

func TestAppGrammarCheckWithoutEngineDegrades(t *testing.T) {
	a := newTestApp(t, EngineNone)
	req := httptest.NewRequest(http.MethodPost, "/grammar-check", strings.NewReader(`{"text":"The citizens submits their reports"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	want := `{"errors":[],"errorCount":0,"isClean":true,"isDegraded":true}`
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAppAuthenticatedSubmissionPersists(t *testing.T) {
	a := newTestApp(t, EngineMock)
	learner := uuid.New()
	mission := uuid.New()

	body := `{"weekNumber":3,"phaseId":"debrief","activityType":"written",` +
		`"content":"Our team received the new directive on Monday morning. We reviewed every rule together, fixed the two open issues in the archive, and confirmed full compliance before the Friday deadline. The process was clear and everyone helped.",` +
		`"metadata":{"targetVocab":["compliance","directive","ministry"],"missionId":"` + mission.String() + `"}}`
	req := httptest.NewRequest(http.MethodPost, "/submissions/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, learner))
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"passed":true`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	row, err := a.Repos.MissionScore.Get(dbctx.Context{Ctx: context.Background()}, learner, mission)
	if err != nil || row == nil {
		t.Fatalf("mission score row=%v err=%v", row, err)
	}
	if row.Score < 0.74 || row.Score > 0.76 {
		t.Fatalf("score=%v", row.Score)
	}
	vp, err := a.Repos.VocabProgress.Get(dbctx.Context{Ctx: context.Background()}, learner, "Directive")
	if err != nil || vp == nil || vp.Encounters != 1 {
		t.Fatalf("vocab progress=%+v err=%v", vp, err)
	}
}

func TestAppReadyz(t *testing.T) {
	a := newTestApp(t, EngineNone)
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}
