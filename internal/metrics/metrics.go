// Package metrics exposes Prometheus collectors for dashboard runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dashboard"

// Metrics groups the collectors updated by the dashboard service.
type Metrics struct {
	Loads               *prometheus.CounterVec
	RowsDropped         prometheus.Counter
	RenderDuration      prometheus.Histogram
	CorrelationFailures *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg creates
// unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Input loads by source kind and outcome.",
		}, []string{"source", "outcome"}),
		RowsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_dropped_total",
			Help:      "Rows discarded because their date could not be parsed.",
		}),
		RenderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent deriving the dashboard products.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		CorrelationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "correlation_failures_total",
			Help:      "Correlation matrices that could not be produced, by reason.",
		}, []string{"reason"}),
	}
}
