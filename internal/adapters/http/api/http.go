// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	service "github.com/okian/chessdna/internal/app"
	"github.com/okian/chessdna/internal/adapters/repository"
	"github.com/okian/chessdna/internal/domain/comparative"
	"github.com/okian/chessdna/internal/domain/features"
	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/ranking"
	"github.com/okian/chessdna/internal/domain/types"
	"github.com/okian/chessdna/pkg/logger"
)

// Limits for list endpoints.
const (
	defaultListLimit = 20
	maxListLimit     = 500
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalysisDependencies
	RankDependencies
	CatalogueDependencies
	ComparativeDependencies
	StatsProvider
}

// Report mirrors the read shape returned by analysis queries.
type Report = types.Report

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	analysesHandler    *AnalysesHandler
	rankHandler        *RankHandler
	catalogueHandler   *CatalogueHandler
	comparativeHandler *ComparativeHandler

	logger  logger.Logger
	limiter *clientLimiter
	trusted []netip.Prefix
	docs    func(chi.Router)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit limits each client to rps requests per second with the
// given burst on /api/v1. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = newClientLimiter(rps, burst)
		} else {
			s.limiter = nil
		}
	}
}

// WithTrustedProxies honors X-Forwarded-For and X-Real-IP only on requests
// whose socket peer falls inside one of the prefixes. Without it the peer
// address identifies the client.
func WithTrustedProxies(prefixes ...netip.Prefix) Option {
	return func(s *Server) {
		s.trusted = append(s.trusted[:0], prefixes...)
	}
}

// WithDocs registers API documentation routes.
func WithDocs(register func(chi.Router)) Option {
	return func(s *Server) {
		s.docs = register
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		analysesHandler:    NewAnalysesHandler(deps),
		rankHandler:        NewRankHandler(deps),
		catalogueHandler:   NewCatalogueHandler(deps),
		comparativeHandler: NewComparativeHandler(deps),
		logger:             logger.Get().Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the HTTP handler for all routes.
func (s *Server) Router(_ context.Context) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(forwardedFrom(s.trusted))
	r.Use(RequestLogger(s.logger))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/metrics", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}

		r.Post("/analyses", s.analysesHandler.HandleSubmit)
		r.Post("/analyses/sync", s.analysesHandler.HandleSubmitSync)
		r.Get("/analyses", s.analysesHandler.HandleList)
		r.Get("/analyses/{subject}", s.analysesHandler.HandleGet)

		r.Post("/rank", s.rankHandler.HandleRank)
		r.Get("/catalogue", s.catalogueHandler.HandleCatalogue)

		r.Get("/compare", s.comparativeHandler.HandleCompare)
		r.Get("/groups", s.comparativeHandler.HandleGroups)
		r.Get("/trends", s.comparativeHandler.HandleTrends)
	})

	if s.docs != nil {
		s.docs(r)
	}
	return r
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the header so an unencodable value
// becomes a 500 instead of an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "internal_error", Message: "failed to encode response"})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure translates upstream errors to a status and code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidMetric), errors.Is(err, features.ErrEmptyInput):
		return http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidJob),
		errors.Is(err, service.ErrTopNTooLarge),
		errors.Is(err, ranking.ErrInvalidTopN),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, comparative.ErrInvalidGroupCount),
		errors.Is(err, comparative.ErrUnknownGroupMode),
		errors.Is(err, comparative.ErrInvalidSubject):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, comparative.ErrUnknownSubject):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBackpressure), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
