package intercept

import (
	"log/slog"
	"time"

	"mercator-hq/logtap/pkg/rootpath"
)

// RootResolver attributes source files to package roots.
type RootResolver interface {
	// Resolve returns the package root owning file.
	Resolve(file string) string

	// Root returns the process root.
	Root() string
}

// Recorder receives interception metrics.
type Recorder interface {
	// RecordCall records one intercepted call and its outcome.
	RecordCall(method, outcome string, duration time.Duration)

	// RecordAttach records n policies registered by a registrant of kind.
	RecordAttach(kind string, n int)

	// SetPolicies reports the number of registered policies.
	SetPolicies(n int)
}

// Options configure the interceptor. They take effect when the interceptor
// is next installed, i.e. on the first Attach after start-up or Detach.
type Options struct {
	// Resolver attributes call sites to package roots.
	// Default: rootpath.Resolver with the go.mod marker.
	Resolver RootResolver

	// Logger receives the interceptor's own diagnostics. It must not write
	// to the console sink being intercepted.
	// Default: slog.Default().
	Logger *slog.Logger

	// Metrics receives per-call and per-attach measurements.
	// Default: none.
	Metrics Recorder

	// Trace records an evaluation trace for every call and logs it at
	// debug level.
	Trace bool
}

func (o Options) withDefaults() Options {
	if o.Resolver == nil {
		o.Resolver = rootpath.Resolver{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Metrics == nil {
		o.Metrics = nopRecorder{}
	}
	return o
}

type nopRecorder struct{}

func (nopRecorder) RecordCall(string, string, time.Duration) {}
func (nopRecorder) RecordAttach(string, int)                 {}
func (nopRecorder) SetPolicies(int)                          {}
