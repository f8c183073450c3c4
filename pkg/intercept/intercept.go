package intercept

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/policy/engine"
	"mercator-hq/logtap/pkg/stack"
)

func init() {
	stack.MarkInternal(stack.PackageOf(Attach))
}

// state exists from the first Attach until Detach.
type state struct {
	// original is the sink that was current before installation.
	original console.Sink

	facade *facade
	store  *engine.Store
	opts   Options
}

var (
	mu   sync.Mutex
	opts = Options{}.withDefaults()
	st   *state
)

// Configure replaces the interceptor options. Zero fields take defaults.
// A running interceptor keeps its options until Detach.
func Configure(o Options) {
	mu.Lock()
	defer mu.Unlock()
	opts = o.withDefaults()
}

// Attach registers policies on behalf of the calling package and installs
// the interceptor as the current console sink if it is not installed yet.
//
// The caller's package root decides the registrant: policies attached from
// the process root are host policies, all others are dependency policies
// confined to their own root. Calling Attach without policies only
// installs the interceptor.
func Attach(policies ...engine.Policy) {
	reg := registrantFor(callerFile(1))

	mu.Lock()
	defer mu.Unlock()

	s := ensureState()
	added := s.store.Append(reg, policies...)

	s.opts.Metrics.RecordAttach(reg.Kind.String(), len(added))
	s.opts.Metrics.SetPolicies(s.store.Len())
	s.opts.Logger.Debug("policies attached",
		"kind", reg.Kind.String(),
		"root", reg.RootPath,
		"batch", reg.ID,
		"count", len(added),
	)
}

// AttachSource registers policies as the named group source, replacing
// everything previously registered under that source. reg is usually
// obtained with CallerRegistrant.
func AttachSource(reg engine.Registrant, source string, policies ...engine.Policy) error {
	reg.Source = source

	mu.Lock()
	defer mu.Unlock()

	s := ensureState()
	added, err := s.store.ReplaceSource(reg, policies...)
	if err != nil {
		return err
	}

	s.opts.Metrics.RecordAttach(reg.Kind.String(), len(added))
	s.opts.Metrics.SetPolicies(s.store.Len())
	s.opts.Logger.Debug("policy source attached",
		"source", source,
		"kind", reg.Kind.String(),
		"root", reg.RootPath,
		"count", len(added),
	)
	return nil
}

// Detach restores the console sink that was current before the first
// Attach and discards all registered policies. It is a no-op when the
// interceptor is not installed.
func Detach() {
	mu.Lock()
	defer mu.Unlock()

	if st == nil {
		return
	}
	console.Replace(st.original)
	st.opts.Metrics.SetPolicies(0)
	st.opts.Logger.Debug("interceptor detached", "policies", st.store.Len())
	st = nil
}

// Attached reports whether the interceptor is installed.
func Attached() bool {
	mu.Lock()
	defer mu.Unlock()
	return st != nil
}

// Policies returns the registered policies in evaluation order.
func Policies() []*engine.Policy {
	mu.Lock()
	defer mu.Unlock()

	if st == nil {
		return nil
	}
	snap := st.store.Snapshot()
	out := make([]*engine.Policy, len(snap))
	copy(out, snap)
	return out
}

// CallerRegistrant returns the registrant for the function skip frames
// above the caller of CallerRegistrant. With skip 0 it describes the
// function that called CallerRegistrant.
func CallerRegistrant(skip int) engine.Registrant {
	return registrantFor(callerFile(skip + 1))
}

// Registrant returns the registrant for a source file.
func Registrant(file string) engine.Registrant {
	return registrantFor(file)
}

// HostRegistrant returns the registrant for the process root, for policies
// registered by tools on behalf of the project they run in.
func HostRegistrant() engine.Registrant {
	return engine.Registrant{
		Kind:     engine.KindHost,
		RootPath: currentResolver().Root(),
		ID:       uuid.NewString(),
	}
}

func currentResolver() RootResolver {
	mu.Lock()
	defer mu.Unlock()
	if st != nil {
		return st.opts.Resolver
	}
	return opts.Resolver
}

func registrantFor(file string) engine.Registrant {
	resolver := currentResolver()

	root := resolver.Resolve(file)
	kind := engine.KindDependency
	if root == resolver.Root() {
		kind = engine.KindHost
	}
	return engine.Registrant{
		Kind:     kind,
		RootPath: root,
		ID:       uuid.NewString(),
	}
}

// callerFile returns the file skip frames above the caller of callerFile.
func callerFile(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return file
}

// ensureState installs the interceptor once. mu must be held.
func ensureState() *state {
	if st != nil {
		return st
	}

	o := opts
	store := engine.NewStore()
	eng := engine.New(store, engine.DefaultEngineConfig().WithTrace(o.Trace), o.Logger)

	f := newFacade(console.Current(), eng, o)
	original := console.Replace(f)

	st = &state{
		original: original,
		facade:   f,
		store:    store,
		opts:     o,
	}
	o.Logger.Debug("interceptor installed")
	return st
}
