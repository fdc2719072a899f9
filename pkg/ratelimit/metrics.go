package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Rejections tracks requests answered with 429 by scope
	Rejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcard_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"scope"}, // "ip", "user"
	)

	// FailOpen tracks rule checks skipped because the store failed
	FailOpen = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devcard_rate_limit_fail_open_total",
			Help: "Total number of rate limit checks skipped due to store errors",
		},
		[]string{"scope"},
	)
)
