package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Simplici0/bomengine/internal/export"
	"github.com/Simplici0/bomengine/internal/metrics"
	"github.com/Simplici0/bomengine/internal/structure"
)

type server struct {
	engine   *structure.Engine
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	auth     *tokenAuth
	logger   *zap.Logger
	timeout  time.Duration
	ping     func(context.Context) error
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.auth.middleware)
		r.Get("/api/v1/structures/{code}", s.handleStructure)
		r.Get("/api/v1/structures/{code}/flat", s.handleFlat)
		r.Get("/api/v1/structures/{code}/flat.csv", s.handleFlatCSV)
		r.Get("/api/v1/structures/{code}/summary", s.handleSummary)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleStructure(w http.ResponseWriter, r *http.Request) {
	result, ok := s.explode(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleFlat(w http.ResponseWriter, r *http.Request) {
	result, ok := s.explode(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, structure.Flatten(result))
}

func (s *server) handleFlatCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := s.explode(w, r)
	if !ok {
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", result.Metadata.QueriedCode, result.Metadata.ReferenceDate)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteCSV(w, structure.Flatten(result)); err != nil {
		s.logger.Warn("write csv response", zap.Error(err))
	}
}

func (s *server) handleSummary(w http.ResponseWriter, r *http.Request) {
	result, ok := s.explode(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, structure.Summarize(result))
}

// explode runs the request's explosion and writes the error response when it
// fails.
func (s *server) explode(w http.ResponseWriter, r *http.Request) (*structure.Result, bool) {
	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	code := chi.URLParam(r, "code")
	timer := metrics.NewTimer()
	result, err := s.engine.Explode(ctx, code, r.URL.Query().Get("date"))

	status, kind, outcome := classify(err)
	nodes := 0
	if result != nil {
		nodes = result.Metadata.NodeCount
	}
	s.metrics.ObserveExplosion(outcome, timer.Duration(), nodes)

	if err != nil {
		logger := s.logger.With(
			zap.String("code", code),
			zap.String("client", clientFromContext(r.Context())),
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err))
		if status >= http.StatusInternalServerError {
			logger.Error("explosion failed", zap.Int("status", status))
		} else {
			logger.Info("explosion rejected", zap.Int("status", status))
		}
		writeError(w, status, kind, publicMessage(status, err))
		return nil, false
	}
	return result, true
}

// classify maps an explosion error to its HTTP status, error kind and
// metrics outcome.
func classify(err error) (int, string, string) {
	var (
		validation *structure.ValidationError
		notFound   *structure.NotFoundError
		rule       *structure.BusinessRuleError
		access     *structure.DataAccessError
	)

	switch {
	case err == nil:
		return http.StatusOK, "", metrics.OutcomeOK
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation_error", metrics.OutcomeInvalid
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found", metrics.OutcomeNotFound
	case errors.As(err, &rule):
		return http.StatusUnprocessableEntity, "business_rule_violation", metrics.OutcomeRuleViolated
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", metrics.OutcomeSourceError
	case errors.As(err, &access):
		return http.StatusBadGateway, "data_access_error", metrics.OutcomeSourceError
	default:
		return http.StatusInternalServerError, "internal_error", metrics.OutcomeError
	}
}

// publicMessage hides source internals from 5xx responses.
func publicMessage(status int, err error) string {
	switch status {
	case http.StatusGatewayTimeout:
		return "structure source did not answer in time"
	case http.StatusBadGateway:
		return "structure source unavailable"
	case http.StatusInternalServerError:
		return "internal error"
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}
