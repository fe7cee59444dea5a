package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskfeed/internal/domain"
	logpkg "github.com/kailas-cloud/riskfeed/internal/logger"
	healthuc "github.com/kailas-cloud/riskfeed/internal/usecase/health"
)

// maxRequestBytes bounds JSON request bodies.
const maxRequestBytes = 64 << 10

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeDocumentNotFound = "document_not_found"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type selectionRequest struct {
	ID *int64 `json:"id"`
}

type refreshResponse struct {
	Generation uint64 `json:"generation"`
}

type healthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server renders the dashboard state over HTTP.
type Server struct {
	dash          Dashboard
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(dash Dashboard, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		dash:   dash,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, CodeDocumentNotFound),
	}
	return s
}

// Routes registers all endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", s.GetDashboard)
		r.Put("/search", s.SetSearch)
		r.Post("/refresh", s.Refresh)
		r.Put("/selection", s.Select)
		r.Delete("/selection", s.Deselect)
		r.Delete("/error", s.DismissError)
		r.Get("/documents/{id}/analysis", s.GetAnalysis)
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// GetDashboard handles GET /api/v1/dashboard.
func (s *Server) GetDashboard(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dash.View())
}

// SetSearch handles PUT /api/v1/search.
func (s *Server) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decodeBody(w, r, &req) {
		return
	}

	s.dash.SetSearchTerm(req.Term)
	writeJSON(w, http.StatusOK, s.dash.View())
}

// Refresh handles POST /api/v1/refresh. The fetch runs in the background.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	gen := s.dash.Trigger()
	logpkg.FromContextOr(r.Context(), s.logger).Debug("Refresh triggered", zap.Uint64("generation", gen))
	writeJSON(w, http.StatusAccepted, refreshResponse{Generation: gen})
}

// Select handles PUT /api/v1/selection.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "id is required")
		return
	}

	in, err := s.dash.Select(*req.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// Deselect handles DELETE /api/v1/selection.
func (s *Server) Deselect(w http.ResponseWriter, _ *http.Request) {
	s.dash.Deselect()
	w.WriteHeader(http.StatusNoContent)
}

// DismissError handles DELETE /api/v1/error.
func (s *Server) DismissError(w http.ResponseWriter, _ *http.Request) {
	s.dash.DismissError()
	w.WriteHeader(http.StatusNoContent)
}

// GetAnalysis handles GET /api/v1/documents/{id}/analysis.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "id must be an integer")
		return
	}

	in, err := s.dash.Inspect(id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Debug("domain error", zap.Error(err))

	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
