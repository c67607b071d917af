// Package metrics holds the Prometheus collectors shared by the trigger
// engine and the content resolver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TriggersFired counts messages attributed to a trigger family
	TriggersFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daymate_triggers_fired_total",
		Help: "Trigger firings by family",
	}, []string{"family"})

	// ContentFallbacks counts content calls that fell back to the fixed string
	ContentFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daymate_content_fallbacks_total",
		Help: "Content calls answered with the deterministic fallback",
	}, []string{"family"})

	// NewsSuppressed counts news ticks suppressed by a hasNews=false response
	NewsSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daymate_news_suppressed_total",
		Help: "News triggers suppressed by a no-news response",
	})

	// TickDuration tracks how long one evaluation pass takes
	TickDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "daymate_tick_duration_seconds",
		Help: "Duration of the last trigger evaluation pass",
	})

	// Ticks counts evaluation passes
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daymate_ticks_total",
		Help: "Trigger evaluation passes",
	})
)
