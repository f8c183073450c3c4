package metrics

import (
	"mercator-hq/logtap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PolicyMetrics tracks policy registration.
//
// Metrics:
//   - <ns>_<sub>_policies: number of registered policies
//   - <ns>_<sub>_policies_attached_total: policies registered by registrant kind
//   - <ns>_<sub>_policy_reloads_total: policy file reloads by result
type PolicyMetrics struct {
	registered    prometheus.Gauge
	attachedTotal *prometheus.CounterVec
	reloadsTotal  *prometheus.CounterVec
}

// NewPolicyMetrics creates and registers policy metrics with the provided registry.
func NewPolicyMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PolicyMetrics {
	pm := &PolicyMetrics{
		registered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policies",
				Help:      "Number of registered policies",
			},
		),

		attachedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policies_attached_total",
				Help:      "Total number of policies registered",
			},
			[]string{"kind"},
		),

		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "policy_reloads_total",
				Help:      "Total number of policy file reloads",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(pm.registered, pm.attachedTotal, pm.reloadsTotal)

	return pm
}

// RecordAttach adds n policies registered by a registrant of kind.
func (pm *PolicyMetrics) RecordAttach(kind string, n int) {
	pm.attachedTotal.WithLabelValues(kind).Add(float64(n))
}

// SetRegistered sets the number of registered policies.
func (pm *PolicyMetrics) SetRegistered(n int) {
	pm.registered.Set(float64(n))
}

// RecordReload records a reload result.
func (pm *PolicyMetrics) RecordReload(result string) {
	pm.reloadsTotal.WithLabelValues(result).Inc()
}
