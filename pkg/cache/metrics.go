package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devcard_cache_hits_total",
			Help: "Total number of card cache hits",
		},
	)

	// CacheMisses tracks cache misses by reason
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcard_cache_misses_total",
			Help: "Total number of card cache misses",
		},
		[]string{"reason"}, // "absent", "stale", "decode", "unavailable", "error"
	)

	// CacheErrors tracks store operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcard_cache_errors_total",
			Help: "Total number of cache store operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	// CacheWrittenBytes tracks envelope bytes written to the store
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "devcard_cache_written_bytes_total",
			Help: "Total number of bytes written to the cache store",
		},
	)
)
