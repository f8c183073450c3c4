// Package telemetry groups the observability packages of logtap.
//
// # Components
//
//   - logging: slog-based diagnostics with PII redaction, and a slog handler
//     that routes records through the intercepted console
//   - metrics: Prometheus metrics for intercepted calls, policy registration
//     and policy reloads
//   - health: liveness and readiness probes for long-running processes
//
// # Usage
//
//	cfg := config.GetConfig()
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	if err != nil {
//		return err
//	}
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	intercept.Configure(intercept.Options{
//		Logger:  logger.Slog(),
//		Metrics: collector,
//	})
//
//	checker := health.New(0)
//	checker.RegisterCheck("interceptor", health.InterceptorCheck())
//
// The interceptor's own logger must never use the console format: its
// records would be intercepted in turn.
package telemetry
