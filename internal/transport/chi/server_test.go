package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/riskfeed/internal/domain"
	"github.com/kailas-cloud/riskfeed/internal/domain/document"
	"github.com/kailas-cloud/riskfeed/internal/domain/risk"
	"github.com/kailas-cloud/riskfeed/internal/usecase/dashboard"
	healthuc "github.com/kailas-cloud/riskfeed/internal/usecase/health"
)

// --- Mocks ---

type stubGateway struct {
	mu   sync.Mutex
	docs []document.Document
	err  error
}

func (g *stubGateway) FetchDocuments(_ context.Context) ([]document.Document, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return document.Clone(g.docs), g.err
}

func (g *stubGateway) fail(err error) {
	g.mu.Lock()
	g.err = err
	g.mu.Unlock()
}

// --- Helpers ---

type testEnv struct {
	gw      *stubGateway
	dash    *dashboard.Controller
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gw := &stubGateway{docs: []document.Document{
		{ID: 1, Title: "Acme 10-K", Source: "EDGAR", URL: "https://sec.gov/acme", RiskScore: 82, Status: document.StatusEmbedded},
		{ID: 2, Title: "Beta News", Source: "Reuters", URL: "https://reuters.com/beta", RiskScore: 40, Status: "PENDING"},
	}}
	dash := dashboard.New(gw)
	if err := dash.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	logger := zap.NewNop()
	srv := NewServer(dash, healthuc.New(dash, nil), logger)
	return &testEnv{gw: gw, dash: dash, handler: NewRouter(srv, logger)}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

// --- Tests ---

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/dashboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	v := decode[dashboard.View](t, rr)
	if v.State != dashboard.StateReady || v.Stats.Total != 2 || v.Stats.HighRisk != 1 || v.Stats.Average != 61 {
		t.Errorf("unexpected view: %+v", v)
	}
	if len(v.Rows) != 2 || v.Rows[0].Category != risk.CategoryCritical || v.Rows[0].Document.URL != "https://sec.gov/acme" {
		t.Errorf("unexpected rows: %+v", v.Rows)
	}
}

func TestSetSearch(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/v1/search", `{"term":"ACME"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	v := decode[dashboard.View](t, rr)
	if v.SearchTerm != "ACME" || len(v.Rows) != 1 || v.Rows[0].Document.ID != 1 {
		t.Errorf("unexpected view: %+v", v)
	}
	if v.Stats.Total != 2 {
		t.Errorf("stats must cover the full collection, got %+v", v.Stats)
	}

	rr = env.do(t, http.MethodPut, "/api/v1/search", `{"term":""}`)
	if v := decode[dashboard.View](t, rr); len(v.Rows) != 2 {
		t.Errorf("empty term must show everything, got %d rows", len(v.Rows))
	}
}

func TestSetSearch_BadBody(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/v1/search", `{"term":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != CodeBadRequest {
		t.Errorf("code = %q", e.Code)
	}
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/v1/refresh", "")
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rr.Code)
	}
	resp := decode[refreshResponse](t, rr)
	if resp.Generation != 2 {
		t.Errorf("generation = %d, want 2", resp.Generation)
	}
	env.dash.Wait()

	if v := env.dash.View(); v.Generation != 2 {
		t.Errorf("applied generation = %d", v.Generation)
	}
}

func TestSelection(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPut, "/api/v1/selection", `{"id":1}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	in := decode[dashboard.Inspection](t, rr)
	if in.Document.ID != 1 || in.Band != risk.High || len(in.Tags) != 4 {
		t.Errorf("unexpected inspection: %+v", in)
	}

	v := decode[dashboard.View](t, env.do(t, http.MethodGet, "/api/v1/dashboard", ""))
	if v.Selected == nil || v.Selected.Document.ID != 1 {
		t.Errorf("expected selection in view, got %+v", v.Selected)
	}

	rr = env.do(t, http.MethodDelete, "/api/v1/selection", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	v = decode[dashboard.View](t, env.do(t, http.MethodGet, "/api/v1/dashboard", ""))
	if v.Selected != nil {
		t.Error("expected no selection")
	}
}

func TestSelection_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown id", `{"id":99}`, http.StatusNotFound, CodeDocumentNotFound},
		{"missing id", `{}`, http.StatusBadRequest, CodeValidationFailed},
		{"wrong type", `{"id":"one"}`, http.StatusBadRequest, CodeBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPut, "/api/v1/selection", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			if e := decode[ErrorResponse](t, rr); e.Code != tc.code {
				t.Errorf("code = %q, want %q", e.Code, tc.code)
			}
		})
	}
}

func TestGetAnalysis(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/documents/2/analysis", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	in := decode[dashboard.Inspection](t, rr)
	if in.Band != risk.Low || in.Narrative != risk.DefaultNarratives.Low {
		t.Errorf("unexpected inspection: %+v", in)
	}

	if rr := env.do(t, http.MethodGet, "/api/v1/documents/abc/analysis", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodGet, "/api/v1/documents/42/analysis", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Message != domain.ErrDocumentNotFound.Error() {
		t.Errorf("message = %q", e.Message)
	}
}

func TestDismissError(t *testing.T) {
	env := newTestEnv(t)
	env.gw.fail(domain.ErrNetwork)
	_ = env.dash.Refresh(context.Background())

	v := decode[dashboard.View](t, env.do(t, http.MethodGet, "/api/v1/dashboard", ""))
	if v.Error == nil || v.Error.Kind != domain.KindNetwork || len(v.Rows) != 2 {
		t.Fatalf("expected banner over stale rows, got %+v", v)
	}

	if rr := env.do(t, http.MethodDelete, "/api/v1/error", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	v = decode[dashboard.View](t, env.do(t, http.MethodGet, "/api/v1/dashboard", ""))
	if v.Error != nil || v.State != dashboard.StateLoadError {
		t.Errorf("unexpected view after dismissal: %+v", v)
	}
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if h := decode[healthResponse](t, rr); h.Status != healthuc.Healthy || h.Checks["feed"] != healthuc.CheckOK {
		t.Errorf("unexpected health: %+v", h)
	}

	env.gw.fail(domain.NewStatusError(502, "502 Bad Gateway"))
	_ = env.dash.Refresh(context.Background())

	rr = env.do(t, http.MethodGet, "/health", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if h := decode[healthResponse](t, rr); h.Status != healthuc.Degraded || h.Checks["feed"] != healthuc.CheckError {
		t.Errorf("unexpected health: %+v", h)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("expected prometheus exposition format")
	}
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/v1/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != CodeNotFound {
		t.Errorf("code = %q", e.Code)
	}

	rr = env.do(t, http.MethodPost, "/api/v1/dashboard", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(zap.NewNop()))
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if e := decode[ErrorResponse](t, rr); e.Code != CodeInternalError {
		t.Errorf("code = %q", e.Code)
	}
}

func TestWideEventMiddleware_Levels(t *testing.T) {
	env := newTestEnv(t)
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	h := NewRouter(NewServer(env.dash, healthuc.New(env.dash, nil), logger), logger)

	for _, path := range []string{"/api/v1/documents/1/analysis", "/health"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 request lines, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("analysis level = %v, want info", entries[0].Level)
	}
	if route := entries[0].ContextMap()["route"]; route != "/api/v1/documents/{id}/analysis" {
		t.Errorf("route = %v", route)
	}
	if entries[0].ContextMap()["request_id"] == "" {
		t.Error("expected request_id on the request line")
	}
	if entries[1].Level != zapcore.DebugLevel {
		t.Errorf("health level = %v, want debug", entries[1].Level)
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		route  string
		status int
		want   zapcore.Level
	}{
		{"/api/v1/dashboard", http.StatusOK, zapcore.InfoLevel},
		{"/api/v1/selection", http.StatusNotFound, zapcore.InfoLevel},
		{"/metrics", http.StatusOK, zapcore.DebugLevel},
		{"/health", http.StatusServiceUnavailable, zapcore.ErrorLevel},
		{"/api/v1/dashboard", http.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.route, tt.status); got != tt.want {
			t.Errorf("requestLevel(%q, %d) = %v, want %v", tt.route, tt.status, got, tt.want)
		}
	}
}
