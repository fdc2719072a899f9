// Package api serves the card endpoints, the telemetry intake and the health
// check over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/paveg/devcard/pkg/analytics"
	"github.com/paveg/devcard/pkg/cache"
	"github.com/paveg/devcard/pkg/github"
	"github.com/paveg/devcard/pkg/metrics"
	"github.com/paveg/devcard/pkg/ratelimit"
)

// GitHub fetches the data behind each card.
type GitHub interface {
	FetchUserStats(ctx context.Context, username string, includeAllCommits bool) (*github.UserStats, error)
	FetchTopLanguages(ctx context.Context, username string, excludeRepos []string, langsCount int) ([]github.Language, error)
	FetchRepo(ctx context.Context, owner, name string) (*github.Repo, error)
}

// Config wires a Server to its collaborators.
type Config struct {
	GitHub    GitHub
	Cache     *cache.Manager
	Analytics *analytics.Collector

	// Limiter guards every /api route. Nil disables rate limiting.
	Limiter *ratelimit.Limiter

	Sink   metrics.Sink
	Logger zerolog.Logger

	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
}

// Server routes HTTP requests to card handlers.
type Server struct {
	github    GitHub
	cache     *cache.Manager
	analytics *analytics.Collector
	limiter   *ratelimit.Limiter
	sink      metrics.Sink
	logger    zerolog.Logger
	handler   http.Handler
}

// New creates a Server. Cache and Analytics default to store-less instances
// and Sink defaults to metrics.Nop.
func New(cfg Config) (*Server, error) {
	s := &Server{
		github:    cfg.GitHub,
		cache:     cfg.Cache,
		analytics: cfg.Analytics,
		limiter:   cfg.Limiter,
		sink:      cfg.Sink,
		logger:    cfg.Logger.With().Str("component", "api").Logger(),
	}
	if s.cache == nil {
		s.cache = cache.NewManager(nil, s.logger)
	}
	if s.analytics == nil {
		s.analytics = analytics.NewCollector(nil, s.logger)
	}
	if s.sink == nil {
		s.sink = metrics.Nop{}
	}

	compress, err := gzhttp.NewWrapper(gzhttp.ContentTypes([]string{contentTypeSVG}))
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.Middleware)
	}
	api.Use(func(next http.Handler) http.Handler { return compress(next) })

	api.HandleFunc("", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/top-langs", s.handleTopLanguages).Methods(http.MethodGet)
	api.HandleFunc("/pin", s.handlePin).Methods(http.MethodGet)
	api.HandleFunc("/analytics/vitals", s.handleWebVital).Methods(http.MethodPost)
	api.HandleFunc("/analytics/error", s.handleError).Methods(http.MethodPost)
	api.HandleFunc("/analytics/custom", s.handleCustomMetric).Methods(http.MethodPost)

	s.handler = s.accessLog(cors(r))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log(r).Error().Err(err).Msg("Failed to encode response")
	}
}

func respondText(w http.ResponseWriter, body string, status int) {
	w.Header().Set("Content-Type", "text/plain; charset=UTF-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// log returns the request-scoped logger set by the access log middleware.
func (s *Server) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
