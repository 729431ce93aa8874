// Package server exposes a built index over read-only HTTP.
//
// Endpoints:
//   - GET /healthz          - liveness
//   - GET /keys             - every key, sorted
//   - GET /objects/{key}    - names filed under key
//   - GET /search?q=&limit= - ranked hits for q
//   - GET /metrics          - prometheus exposition
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/koustreak/blobidx/internal/errs"
	"github.com/koustreak/blobidx/internal/logger"
	"github.com/koustreak/blobidx/internal/lookup"
	"github.com/koustreak/blobidx/internal/metrics"
	"github.com/koustreak/blobidx/internal/objname"
	"github.com/koustreak/blobidx/internal/search"
)

// DefaultLimit caps /search results when the request has no limit.
const DefaultLimit = 20

// Config configures the handler and its listener.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	DefaultLimit    int
	Logger          *logger.Logger
}

// Server serves one immutable string-keyed index.
type Server struct {
	cfg    Config
	log    *logger.Logger
	index  lookup.Lookup[string]
	score  search.ScoreFunc[string, string]
	router chi.Router
}

// New builds the router. score ranks keys for /search.
func New(idx lookup.Lookup[string], score search.ScoreFunc[string, string], cfg Config) *Server {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Global()
	}

	s := &Server{
		cfg:   cfg,
		log:   log.Component("server"),
		index: idx,
		score: score,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/keys", s.handleKeys)
	r.Get("/objects/{key}", s.handleObjects)
	r.Get("/search", s.handleSearch)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.With().Str("addr", s.cfg.Addr).Logger().Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errs.Wrap(errs.ErrKindConnectionFailed, "server stopped", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errs.Wrap(errs.ErrKindTimeout, "graceful shutdown failed", err)
	}
	return nil
}

// --- Handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleKeys(w http.ResponseWriter, _ *http.Request) {
	keys := lookup.Collect(s.index)
	slices.Sort(keys)
	if keys == nil {
		keys = []string{}
	}
	s.writeJSON(w, http.StatusOK, keys)
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	names, err := s.index.Get(chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := s.cfg.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			metrics.SearchRequests.WithLabelValues(metrics.ResultBadRequest).Inc()
			s.writeError(w, errs.New(errs.ErrKindInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	hits, err := search.FindBestMatch(s.index, s.score, q)
	if err != nil {
		logger.FromContext(r.Context()).With().Str("query", q).Err(err).Logger().Warn("search rejected")
		metrics.SearchRequests.WithLabelValues(errs.KindOf(err).String()).Inc()
		s.writeError(w, err)
		return
	}
	metrics.SearchRequests.WithLabelValues(metrics.ResultOK).Inc()

	hits = search.Top(hits, limit)
	if hits == nil {
		hits = []search.ScoredHit[objname.Name]{}
	}
	s.writeJSON(w, http.StatusOK, hits)
}

// --- Responses ---

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func statusOf(err error) int {
	switch {
	case errs.IsInvalidInput(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsIndexing(err), errs.IsDataFormat(err):
		return http.StatusUnprocessableEntity
	case errs.IsTimeout(err):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.With().Err(err).Logger().Error("request failed")
	}
	s.writeJSON(w, status, errorBody{Error: err.Error(), Kind: errs.KindOf(err).String()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.With().Err(err).Logger().Warn("failed to write response")
	}
}
