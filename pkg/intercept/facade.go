package intercept

import (
	"sync"
	"time"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/policy/engine"
	"mercator-hq/logtap/pkg/stack"
)

// facade is the sink installed in place of the original. It forwards every
// member access to the original sink at access time, so members defined
// after installation are intercepted as well.
type facade struct {
	target console.Sink
	eng    *engine.Engine
	opts   Options

	mu       sync.Mutex
	wrappers map[console.Key]console.Method
}

func newFacade(target console.Sink, eng *engine.Engine, o Options) *facade {
	return &facade{
		target:   target,
		eng:      eng,
		opts:     o,
		wrappers: make(map[console.Key]console.Method),
	}
}

// Lookup returns the target's member for key. Callable members are
// replaced by the interception wrapper for key; values pass through.
func (f *facade) Lookup(key console.Key) (console.Member, bool) {
	m, ok := f.target.Lookup(key)
	if !ok || !m.Callable() {
		return m, ok
	}
	return console.Member{Func: f.wrapper(key), Value: m.Value}, true
}

// Define adds the member to the target sink.
func (f *facade) Define(key console.Key, member console.Member) {
	f.target.Define(key, member)
}

// Call invokes key with the facade as receiver.
func (f *facade) Call(key console.Key, args ...any) error {
	m, ok := f.Lookup(key)
	if !ok {
		return &console.CallError{Key: key, Err: console.ErrUnknownMethod}
	}
	if !m.Callable() {
		return &console.CallError{Key: key, Err: console.ErrNotCallable}
	}
	return m.Func(f, args...)
}

// Keys lists the target's keys.
func (f *facade) Keys() []console.Key {
	return f.target.Keys()
}

// wrapper returns the cached wrapper for key, creating it on first use.
func (f *facade) wrapper(key console.Key) console.Method {
	f.mu.Lock()
	defer f.mu.Unlock()

	if w, ok := f.wrappers[key]; ok {
		return w
	}
	w := func(recv console.Sink, args ...any) error {
		return f.invoke(key, recv, args)
	}
	f.wrappers[key] = w
	return w
}

// invoke evaluates one call and forwards it to the target unless the
// policies suppress it.
func (f *facade) invoke(key console.Key, recv console.Sink, args []any) error {
	start := time.Now()

	frames := stack.Capture(0)
	decision, err := f.eng.Evaluate(&engine.Call{
		Method: key,
		Args:   args,
		File:   stack.CallerFile(frames),
		Stack:  frames,
	})
	if err != nil {
		f.opts.Metrics.RecordCall(key.String(), "error", time.Since(start))
		return err
	}
	f.opts.Metrics.RecordCall(key.String(), string(decision.Outcome), time.Since(start))

	if decision.Trace != nil {
		f.logTrace(key, decision)
	}
	if decision.Suppressed() {
		return nil
	}

	m, ok := f.target.Lookup(key)
	if !ok || !m.Callable() {
		return &console.CallError{Key: key, Err: console.ErrUnknownMethod}
	}
	return m.Func(recv, decision.Args...)
}

func (f *facade) logTrace(key console.Key, d *engine.Decision) {
	steps := make([]string, 0, len(d.Trace.Steps))
	for _, s := range d.Trace.Steps {
		steps = append(steps, s.StepType+":"+s.Policy)
	}
	f.opts.Logger.Debug("log call evaluated",
		"method", key.String(),
		"outcome", string(d.Outcome),
		"applied", d.Applied,
		"steps", steps,
		"duration", d.EvaluationTime,
	)
}
