// Package metrics provides Prometheus metrics for intercepted console calls.
//
// # Metrics
//
//   - calls_total{method,outcome}: console calls by outcome (forward,
//     disabled, prevented, error)
//   - evaluation_duration_seconds{method}: policy evaluation latency
//   - policies: registered policies
//   - policies_attached_total{kind}: policies registered by host or
//     dependency registrants
//   - policy_reloads_total{result}: policy file reloads
//
// All names carry the configured namespace and subsystem prefix
// (logtap_intercept_ by default).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	intercept.Configure(intercept.Options{Metrics: collector})
//
//	http.Handle("/metrics", collector.Handler())
//
// # Cardinality
//
// The method label is bounded by MetricsConfig.MaxMethods. Methods first
// seen after the limit is reached are counted as "other".
package metrics
