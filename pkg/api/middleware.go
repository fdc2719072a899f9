package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/paveg/devcard/pkg/metrics"
	"github.com/paveg/devcard/pkg/ratelimit"
)

// cors allows any origin to embed cards and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			respondText(w, "", http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// accessLog writes one structured line per request and reports it to the
// metrics sink. The request id is the edge's CF-Ray or a new UUID and is
// echoed as X-Request-Id.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("CF-Ray")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		logger := s.logger.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		cacheStatus := w.Header().Get(headerCacheStatus)

		event := logger.Info()
		if status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration", duration).
			Str("ip", ratelimit.ClientIP(r)).
			Str("country", r.Header.Get("CF-IPCountry")).
			Str("user_agent", r.UserAgent()).
			Str("cache_status", cacheStatus).
			Msg("request")

		s.sink.RecordRequest(metrics.Request{
			Route:       routeLabel(r.URL.Path),
			Status:      status,
			Duration:    duration,
			CacheStatus: cacheStatus,
		})
	})
}

var knownRoutes = map[string]string{
	"/api":                  "/api",
	"/api/":                 "/api",
	"/api/top-langs":        "/api/top-langs",
	"/api/pin":              "/api/pin",
	"/api/analytics/vitals": "/api/analytics/vitals",
	"/api/analytics/error":  "/api/analytics/error",
	"/api/analytics/custom": "/api/analytics/custom",
	"/health":               "/health",
	"/metrics":              "/metrics",
}

// routeLabel bounds the route label's cardinality.
func routeLabel(path string) string {
	if route, ok := knownRoutes[path]; ok {
		return route
	}
	return "other"
}
