package metrics

import (
	"time"

	"mercator-hq/logtap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CallMetrics tracks intercepted console calls.
//
// Metrics:
//   - <ns>_<sub>_calls_total: console calls by method and outcome
//   - <ns>_<sub>_evaluation_duration_seconds: policy evaluation latency by method
type CallMetrics struct {
	callsTotal         *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
}

// NewCallMetrics creates and registers call metrics with the provided registry.
func NewCallMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CallMetrics {
	cm := &CallMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "calls_total",
				Help:      "Total number of intercepted console calls",
			},
			[]string{"method", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of policy evaluation per console call in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"method"},
		),
	}

	registry.MustRegister(cm.callsTotal, cm.evaluationDuration)

	return cm
}

// RecordCall records a console call and its evaluation time.
func (cm *CallMetrics) RecordCall(method, outcome string, duration time.Duration) {
	cm.callsTotal.WithLabelValues(method, outcome).Inc()
	cm.evaluationDuration.WithLabelValues(method).Observe(duration.Seconds())
}
