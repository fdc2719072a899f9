package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Events tracks received telemetry reports by kind
var Events = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "devcard_analytics_events_total",
		Help: "Total number of telemetry reports received",
	},
	[]string{"kind"}, // "web_vital", "error", "custom"
)
