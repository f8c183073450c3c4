// Package health provides liveness and readiness probes for long-running
// logtap processes.
//
// A Checker runs named component checks concurrently and aggregates them.
// InterceptorCheck reports whether the console is intercepted and
// LastErrorCheck turns the result of the last policy load into a check:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("interceptor", health.InterceptorCheck())
//	checker.RegisterCheck("policies", health.LastErrorCheck(func() error {
//		return mgr.Status().LastError
//	}))
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildDate)
//
// /ready answers 503 while any check fails, so a broken policy file that
// was rejected on reload shows up without stopping the process.
package health
