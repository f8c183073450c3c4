package metrics

import (
	"sync"
	"time"

	"mercator-hq/logtap/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// OtherMethod is the method label used once the method cardinality limit is
// reached.
const OtherMethod = "other"

// Collector records Prometheus metrics for intercepted console calls and
// policy registration. It satisfies intercept.Recorder.
//
// Method labels come from user-defined console members, so their
// cardinality is bounded by a CardinalityLimiter. Methods seen after the
// limit is reached are aggregated under OtherMethod.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Console call metrics
	callMetrics *CallMetrics

	// Policy registration metrics
	policyMetrics *PolicyMetrics

	// Cardinality tracking for the method label
	methodLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "logtap",
//		Subsystem: "intercept",
//	}
//	collector := metrics.NewCollector(cfg, nil)
//	intercept.Configure(intercept.Options{Metrics: collector})
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	// Set defaults if not specified
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}
	if cfg.MaxMethods <= 0 {
		cfg.MaxMethods = config.DefaultMetricsMaxMethods
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		callMetrics:   NewCallMetrics(cfg, registry),
		policyMetrics: NewPolicyMetrics(cfg, registry),
		methodLimiter: NewCardinalityLimiter(cfg.MaxMethods),
	}
}

// RecordCall records one intercepted console call.
//
// Parameters:
//   - method: console method key (e.g., "log", "Symbol(audit)")
//   - outcome: "forward", "disabled", "prevented" or "error"
//   - duration: policy evaluation time
func (c *Collector) RecordCall(method, outcome string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}

	if !c.methodLimiter.Allow(method) {
		method = OtherMethod
	}
	c.callMetrics.RecordCall(method, outcome, duration)
}

// RecordAttach records n policies registered by a registrant of the given
// kind ("host" or "dependency").
func (c *Collector) RecordAttach(kind string, n int) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.RecordAttach(kind, n)
}

// SetPolicies updates the number of registered policies.
func (c *Collector) SetPolicies(n int) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.SetRegistered(n)
}

// RecordReload records a policy file reload with result "success" or
// "error".
func (c *Collector) RecordReload(result string) {
	if !c.config.Enabled {
		return
	}

	c.policyMetrics.RecordReload(result)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if the value
// already exists or if the cardinality limit has not been reached yet.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
