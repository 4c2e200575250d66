package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the chat-turn instruments
type Metrics struct {
	turnsTotal  *prometheus.CounterVec
	turnLatency prometheus.Histogram
}

// NewMetrics registers the chat metrics with the given registerer (pass
// prometheus.DefaultRegisterer in production)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		turnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Completed chat turns by detected intent",
		}, []string{"intent"}),
		turnLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chat_turn_duration_seconds",
			Help:    "End-to-end latency of one chat turn",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveTurn records one completed chat turn. Nil receivers are allowed so
// callers do not need metrics wiring in tests.
func (m *Metrics) ObserveTurn(intent string, latency time.Duration) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
	m.turnLatency.Observe(latency.Seconds())
}
