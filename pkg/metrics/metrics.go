// Package metrics defines the telemetry sink that request handlers and the
// GitHub client report to, with a Prometheus implementation and a no-op one.
//
// The sink is passed explicitly to whoever reports to it. Package-level
// collectors in cache and ratelimit register against the default registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UpstreamCall describes one completed call to the GitHub GraphQL API.
type UpstreamCall struct {
	// Endpoint is the logical operation, e.g. "user_stats".
	Endpoint string

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	Duration time.Duration

	// RateLimitRemaining and RateLimitReset are parsed from the
	// X-RateLimit-Remaining and X-RateLimit-Reset headers when present.
	RateLimitRemaining *int
	RateLimitReset     *int64
}

// Request describes one served card or API request.
type Request struct {
	Route    string
	Status   int
	Duration time.Duration

	// CacheStatus is "HIT", "MISS" or empty for uncached routes.
	CacheStatus string
}

// Sink receives telemetry events. Implementations must be safe for
// concurrent use.
type Sink interface {
	RecordUpstreamCall(UpstreamCall)
	RecordRequest(Request)
}

// Nop discards all events.
type Nop struct{}

func (Nop) RecordUpstreamCall(UpstreamCall) {}
func (Nop) RecordRequest(Request)           {}

// Prometheus records events as Prometheus collectors.
type Prometheus struct {
	upstreamCalls      *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	rateLimitRemaining prometheus.Gauge
	rateLimitReset     prometheus.Gauge
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// NewPrometheus creates a sink whose collectors are registered with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	factory := promauto.With(reg)

	return &Prometheus{
		upstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devcard_github_requests_total",
				Help: "Total number of GitHub GraphQL requests",
			},
			[]string{"endpoint", "status"},
		),
		upstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devcard_github_request_duration_seconds",
				Help:    "GitHub GraphQL request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		rateLimitRemaining: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "devcard_github_rate_limit_remaining",
				Help: "Last observed GitHub API rate limit remaining",
			},
		),
		rateLimitReset: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "devcard_github_rate_limit_reset_timestamp_seconds",
				Help: "Last observed GitHub API rate limit reset time",
			},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "devcard_http_requests_total",
				Help: "Total number of served HTTP requests",
			},
			[]string{"route", "status", "cache"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "devcard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

func (p *Prometheus) RecordUpstreamCall(c UpstreamCall) {
	status := "error"
	if c.Status > 0 {
		status = strconv.Itoa(c.Status)
	}
	p.upstreamCalls.WithLabelValues(c.Endpoint, status).Inc()
	p.upstreamDuration.WithLabelValues(c.Endpoint).Observe(c.Duration.Seconds())

	if c.RateLimitRemaining != nil {
		p.rateLimitRemaining.Set(float64(*c.RateLimitRemaining))
	}
	if c.RateLimitReset != nil {
		p.rateLimitReset.Set(float64(*c.RateLimitReset))
	}
}

func (p *Prometheus) RecordRequest(r Request) {
	cacheStatus := r.CacheStatus
	if cacheStatus == "" {
		cacheStatus = "none"
	}
	p.requests.WithLabelValues(r.Route, strconv.Itoa(r.Status), cacheStatus).Inc()
	p.requestDuration.WithLabelValues(r.Route).Observe(r.Duration.Seconds())
}

// Metrics Documentation
//
// GitHub Metrics (Prometheus sink):
//   - devcard_github_requests_total{endpoint, status} (Counter): GraphQL calls by operation and HTTP status
//   - devcard_github_request_duration_seconds{endpoint} (Histogram): GraphQL call latency
//   - devcard_github_rate_limit_remaining (Gauge): Last X-RateLimit-Remaining seen
//   - devcard_github_rate_limit_reset_timestamp_seconds (Gauge): Last X-RateLimit-Reset seen
//
// HTTP Metrics (Prometheus sink):
//   - devcard_http_requests_total{route, status, cache} (Counter): Served requests
//   - devcard_http_request_duration_seconds{route} (Histogram): Request latency
//
// Cache Metrics (pkg/cache):
//   - devcard_cache_hits_total, devcard_cache_misses_total{reason},
//     devcard_cache_errors_total{operation}, devcard_cache_written_bytes_total
//
// Rate Limit Metrics (pkg/ratelimit):
//   - devcard_rate_limit_rejections_total{scope}, devcard_rate_limit_fail_open_total{scope}
//
// Example Prometheus Queries:
//
//   # Card cache hit rate
//   sum(rate(devcard_cache_hits_total[5m])) /
//   (sum(rate(devcard_cache_hits_total[5m])) + sum(rate(devcard_cache_misses_total[5m])))
//
//   # GitHub quota pressure
//   devcard_github_rate_limit_remaining < 100
