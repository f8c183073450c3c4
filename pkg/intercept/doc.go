// Package intercept installs caller-scoped policies around the process-wide
// console sink.
//
// The first Attach replaces console.Current with a facade. Every method
// call made through the facade captures the call site, is evaluated by the
// policy engine, and is then either forwarded to the original sink with
// the resulting arguments or dropped. Detach puts the original sink back
// and forgets every policy.
//
// # Attribution
//
// Attach inspects its direct caller. If the caller's package root (the
// nearest directory with a go.mod) is the process root, the policies are
// host policies. Otherwise they belong to a dependency and only apply to
// calls made from inside that dependency's tree. Dependency policies are
// evaluated before host policies.
//
//	// in a library
//	intercept.Attach(engine.Policy{Disabled: engine.Bool(true)})
//
//	// in the application, re-enabling errors everywhere
//	intercept.Attach(engine.Policy{
//	    Methods:  []console.Key{console.KeyError},
//	    Disabled: engine.Bool(false),
//	})
//
// # Re-entrancy
//
// No lock is held while a policy transform runs, so a transform may log
// through the console itself. Such nested calls are evaluated on their own.
package intercept
