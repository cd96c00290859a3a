// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TurnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_turns_processed_total",
			Help: "Total number of conversation turns processed",
		},
		[]string{"state"},
	)

	ValidationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_validation_rejections_total",
			Help: "Total number of inputs rejected by a state validator",
		},
		[]string{"state"},
	)

	LookupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_lookup_failures_total",
			Help: "Total number of vehicle-data lookup failures",
		},
		[]string{"operation"},
	)

	FallbackReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_fallback_replies_total",
			Help: "Total number of replies substituted after generator failure",
		},
		[]string{"state"},
	)

	FrustrationEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_frustration_events_total",
			Help: "Total number of turns routed through the empathetic branch",
		},
	)

	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "intake_turn_duration_seconds",
			Help: "Duration of turn processing in seconds",
		},
		[]string{"state"},
	)
)
