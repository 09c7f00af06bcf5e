package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/crash-severity-service/internal/domain"
	"github.com/couchcryptid/crash-severity-service/internal/observability"
	"github.com/couchcryptid/crash-severity-service/internal/report"
	"github.com/couchcryptid/crash-severity-service/internal/schema"
)

const (
	serviceName    = "Crash Severity Prediction API"
	serviceVersion = "1.0.0"

	// maxBodyBytes bounds request bodies; a scenario is well under 1 KiB.
	maxBodyBytes = 64 << 10
)

// Deps are the collaborators the HTTP server needs.
type Deps struct {
	Scorer         domain.Scorer
	Ready          sharedobs.ReadinessChecker
	Metrics        *observability.Metrics
	Clock          clockwork.Clock
	AllowedOrigins []string
}

// Server exposes the prediction API alongside health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the prediction routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, deps Deps, logger *slog.Logger) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}

	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(deps.AllowedOrigins, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		deps:   deps,
		logger: logger,
	}

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /schema", s.handleSchema)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /risk", s.handleRisk)
	mux.HandleFunc("POST /report", s.handleReport)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(deps.Ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": serviceName,
		"version": serviceVersion,
		"docs":    "/schema",
	})
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// handleHealth mirrors the prediction backend contract: the service is up,
// and model_loaded tells whether the configured scorer can answer.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loaded := true
	if rc, ok := s.deps.Scorer.(sharedobs.ReadinessChecker); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		loaded = rc.CheckReadiness(ctx) == nil
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", ModelLoaded: loaded})
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schema.Source())
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	scenario, ok := s.decodeScenario(w, r, "predict")
	if !ok {
		return
	}
	result, ok := s.score(w, r, scenario)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	scenario, ok := s.decodeScenario(w, r, "risk")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, domain.AssessRisk(scenario))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	scenario, ok := s.decodeScenario(w, r, "report")
	if !ok {
		return
	}
	result, ok := s.score(w, r, scenario)
	if !ok {
		return
	}

	now := s.deps.Clock.Now()
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(now)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.Text(result, scenario, now))
}

// decodeScenario reads and validates the request body. On failure it has
// already written the response.
func (s *Server) decodeScenario(w http.ResponseWriter, r *http.Request, route string) (domain.CrashScenario, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
		return domain.CrashScenario{}, false
	}

	scenario, err := schema.DecodeScenario(body)
	if err == nil {
		return scenario, true
	}

	var ve *schema.ValidationError
	switch {
	case errors.As(err, &ve):
		s.deps.Metrics.ValidationErrors.WithLabelValues(route).Inc()
		writeError(w, http.StatusUnprocessableEntity, "invalid crash scenario", ve.Details)
	case errors.Is(err, schema.ErrMalformed):
		writeError(w, http.StatusBadRequest, "malformed JSON body", nil)
	default:
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	}
	return domain.CrashScenario{}, false
}

func (s *Server) score(w http.ResponseWriter, r *http.Request, scenario domain.CrashScenario) (domain.PredictionResult, bool) {
	result, err := s.deps.Scorer.Score(r.Context(), scenario)
	if err != nil {
		s.logger.Error("prediction failed", "error", err)
		writeError(w, http.StatusBadGateway, "prediction failed: "+err.Error(), nil)
		return domain.PredictionResult{}, false
	}
	s.deps.Metrics.ObservePrediction("http", string(result.Severity), result.Confidence)
	s.logger.Debug("prediction served", "severity", result.Severity, "confidence", result.Confidence)
	return result, true
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string, details []string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
