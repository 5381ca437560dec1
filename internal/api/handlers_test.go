// SPDX-License-Identifier: MIT
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NVlabs/GraspGen/internal/config"
)

// fakeSource implements ConfigSource for handler tests.
type fakeSource struct {
	cfg       config.AppConfig
	summary   config.ChangeSummary
	reloadErr error
	reloads   int
}

func (f *fakeSource) Get() config.AppConfig { return f.cfg }

func (f *fakeSource) Reload(context.Context) (config.ChangeSummary, error) {
	f.reloads++
	return f.summary, f.reloadErr
}

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	cfg, err := config.NewLoader("", "test").Load()
	if err != nil {
		t.Fatalf("loading defaults failed: %v", err)
	}
	return cfg
}

func newTestServer(t *testing.T, source ConfigSource) *Server {
	t.Helper()
	return NewServer(config.ParseServerConfig(), source)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &fakeSource{cfg: testConfig(t)})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %q", body["status"])
	}
}

func TestConfigGetJSON(t *testing.T) {
	cfg := testConfig(t)
	srv := newTestServer(t, &fakeSource{cfg: cfg})

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap config.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.Config.Gripper.Name != cfg.Gripper.Name {
		t.Errorf("expected gripper %s, got %s", cfg.Gripper.Name, snap.Config.Gripper.Name)
	}
	if snap.Runtime.RunID == "" {
		t.Error("snapshot must carry a run ID")
	}
}

func TestConfigGetYAML(t *testing.T) {
	srv := newTestServer(t, &fakeSource{cfg: testConfig(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/config?format=yaml", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("expected application/yaml, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "gripper:") {
		t.Error("YAML body must contain the gripper block")
	}
}

func TestConfigSchema(t *testing.T) {
	srv := newTestServer(t, &fakeSource{cfg: testConfig(t)})

	req := httptest.NewRequest(http.MethodGet, "/api/config/schema", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var entries []schemaEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("schema must not be empty")
	}

	found := false
	for _, e := range entries {
		if e.Path == "train.batch_size" {
			found = true
			if e.Env != "GRASPGEN_BATCH_SIZE" {
				t.Errorf("expected env GRASPGEN_BATCH_SIZE, got %s", e.Env)
			}
			if e.HotReloadable {
				t.Error("train.batch_size must not be hot-reloadable")
			}
		}
	}
	if !found {
		t.Error("schema must list train.batch_size")
	}
}

func TestConfigReload(t *testing.T) {
	source := &fakeSource{
		cfg: testConfig(t),
		summary: config.ChangeSummary{
			Changes: []config.FieldChange{
				{Path: "eval.mask_thresh", Old: 0.4, New: 0.6},
			},
		},
	}
	srv := newTestServer(t, source)

	req := httptest.NewRequest(http.MethodPost, "/api/config/reload", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if source.reloads != 1 {
		t.Errorf("expected one reload, got %d", source.reloads)
	}

	var summary config.ChangeSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(summary.Changes) != 1 || summary.Changes[0].Path != "eval.mask_thresh" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestConfigReloadFailure(t *testing.T) {
	source := &fakeSource{
		cfg:       testConfig(t),
		reloadErr: errors.New("validation failed"),
	}
	srv := newTestServer(t, source)

	req := httptest.NewRequest(http.MethodPost, "/api/config/reload", nil)
	req.RemoteAddr = "192.0.2.2:1234"
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "config reload failed") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestReloadRateLimit(t *testing.T) {
	source := &fakeSource{cfg: testConfig(t)}
	srv := newTestServer(t, source)
	router := srv.Router()

	var limited bool
	for i := 0; i < 15; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/config/reload", nil)
		req.RemoteAddr = "192.0.2.3:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected reload endpoint to rate limit repeated requests")
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	srv := newTestServer(t, &fakeSource{cfg: testConfig(t)})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("expected propagated request ID req-123, got %s", got)
	}
}

func TestRecovererMiddleware(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeSource{cfg: testConfig(t)})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "graspgen_config_loads_total") {
		t.Error("expected graspgen_config_loads_total in metrics exposition")
	}
}
