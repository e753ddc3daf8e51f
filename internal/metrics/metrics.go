// Package metrics provides Prometheus metrics for structure explosions.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Explosion outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeRuleViolated = "rule_violated"
	OutcomeSourceError  = "source_error"
	OutcomeError        = "error"
)

// Metrics holds the collectors registered for one service instance.
type Metrics struct {
	SourceCalls        *prometheus.CounterVec
	SourceCallDuration *prometheus.HistogramVec
	Explosions         *prometheus.CounterVec
	ExplosionDuration  prometheus.Histogram
	ExplosionNodes     prometheus.Histogram
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SourceCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bom_source_calls_total",
				Help: "Total number of calls made to the structure source",
			},
			[]string{"call", "status"},
		),
		SourceCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bom_source_call_duration_seconds",
				Help:    "Duration of calls to the structure source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"call"},
		),
		Explosions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bom_explosions_total",
				Help: "Total number of structure explosions by outcome",
			},
			[]string{"outcome"},
		),
		ExplosionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bom_explosion_duration_seconds",
				Help:    "Time taken to explode a structure",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
		),
		ExplosionNodes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bom_explosion_nodes",
				Help:    "Number of nodes in exploded structures",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
			},
		),
	}
}

// RecordSourceCall records one call to the structure source.
func (m *Metrics) RecordSourceCall(call string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SourceCalls.WithLabelValues(call, status).Inc()
	m.SourceCallDuration.WithLabelValues(call).Observe(duration.Seconds())
}

// ObserveExplosion records a finished explosion. nodes is only observed for
// successful explosions.
func (m *Metrics) ObserveExplosion(outcome string, duration time.Duration, nodes int) {
	m.Explosions.WithLabelValues(outcome).Inc()
	m.ExplosionDuration.Observe(duration.Seconds())
	if outcome == OutcomeOK {
		m.ExplosionNodes.Observe(float64(nodes))
	}
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
