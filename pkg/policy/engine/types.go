package engine

import (
	"slices"
	"time"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/pathmatch"
	"mercator-hq/logtap/pkg/stack"
)

// Kind classifies who registered a policy.
type Kind int

const (
	// KindDependency marks policies registered from outside the process
	// root, i.e. by a library the host depends on.
	KindDependency Kind = iota

	// KindHost marks policies registered by the host project itself.
	KindHost
)

// String returns "dependency" or "host".
func (k Kind) String() string {
	switch k {
	case KindDependency:
		return "dependency"
	case KindHost:
		return "host"
	default:
		return "unknown"
	}
}

// Registrant is attribution metadata attached to every policy when it is
// registered. It is never supplied by policy authors.
type Registrant struct {
	// Kind is host when RootPath equals the process root.
	Kind Kind `json:"kind"`

	// RootPath is the package root of the registering call site.
	RootPath string `json:"root_path"`

	// ID identifies the registration batch.
	ID string `json:"id"`

	// Source names a replaceable policy group, such as a policy file.
	// Empty for policies registered in code.
	Source string `json:"source,omitempty"`
}

// TransformFunc rewrites the arguments of an intercepted call. The returned
// slice replaces the working arguments seen by later policies.
type TransformFunc func(ctx *Context) ([]any, error)

// Policy scopes enable/disable and transformation rules to methods and
// caller paths.
type Policy struct {
	// Name labels the policy in traces and errors. Optional.
	Name string

	// Methods restricts the policy to these sink keys. Nil applies to all
	// methods; an empty non-nil slice applies to none.
	Methods []console.Key

	// Paths restricts the policy to callers whose path relative to the
	// registrant root matches any alternative. Nil applies to all paths.
	Paths pathmatch.Any

	// Disabled is tri-state. Nil leaves the running state untouched; a
	// non-nil value overwrites it.
	Disabled *bool

	// Transform rewrites call arguments. Optional.
	Transform TransformFunc

	registrant Registrant
}

// Bool returns a pointer to v, for Policy.Disabled.
func Bool(v bool) *bool {
	return &v
}

// Registrant returns the attribution assigned at registration.
func (p *Policy) Registrant() Registrant {
	return p.registrant
}

// label names the policy in errors and traces.
func (p *Policy) label() string {
	if p.Name != "" {
		return p.Name
	}
	return "<unnamed>"
}

// appliesTo reports whether the policy covers method.
func (p *Policy) appliesTo(method console.Key) bool {
	if p.Methods == nil {
		return true
	}
	return slices.Contains(p.Methods, method)
}

// Call describes one intercepted sink invocation.
type Call struct {
	// Method is the sink key being invoked.
	Method console.Key

	// Args are the arguments as passed by the caller.
	Args []any

	// File is the caller's source file, or "" when unknown.
	File string

	// Stack is the captured call-site trace.
	Stack []stack.Frame
}

// Context is handed to a policy transform.
type Context struct {
	// Args is the working argument list, carrying changes from earlier
	// transforms.
	Args []any

	// Method is the sink key being invoked.
	Method console.Key

	// Path is the caller file relative to RootPath, slash separated.
	Path string

	// RootPath is the root of the policy's registrant.
	RootPath string

	// StackTrace is the captured call-site trace.
	StackTrace []stack.Frame

	original  []any
	prevented bool
}

// OriginalArgs returns a fresh copy of the arguments the call was made
// with. Modifying the copy has no effect on other transforms.
func (c *Context) OriginalArgs() []any {
	return slices.Clone(c.original)
}

// Prevent suppresses the call. No further policies run once the current
// transform returns.
func (c *Context) Prevent() {
	c.prevented = true
}

// Prevented reports whether Prevent was called.
func (c *Context) Prevented() bool {
	return c.prevented
}

// Outcome is the final verdict for a call.
type Outcome string

const (
	// OutcomeForward passes the call to the sink.
	OutcomeForward Outcome = "forward"

	// OutcomeDisabled drops the call because the running disabled flag
	// ended true.
	OutcomeDisabled Outcome = "disabled"

	// OutcomePrevented drops the call because a transform called Prevent.
	OutcomePrevented Outcome = "prevented"
)

// Decision is the result of evaluating a call against the store.
type Decision struct {
	// Outcome is the verdict.
	Outcome Outcome

	// Args are the arguments to forward. Only meaningful for OutcomeForward.
	Args []any

	// Applied lists the labels of policies whose transform ran, in order.
	Applied []string

	// EvaluationTime is the wall time spent evaluating.
	EvaluationTime time.Duration

	// Trace contains detailed evaluation steps (if enabled).
	Trace *EvaluationTrace
}

// Suppressed reports whether the call must not reach the sink.
func (d *Decision) Suppressed() bool {
	return d.Outcome != OutcomeForward
}

// EvaluationTrace records the steps of one evaluation for debugging.
type EvaluationTrace struct {
	// Steps contains individual trace steps.
	Steps []*TraceStep

	// TotalTime is the total evaluation time.
	TotalTime time.Duration
}

// TraceStep is a single step in the evaluation trace.
type TraceStep struct {
	// StepType identifies the step: "skip_root", "skip_method", "skip_path",
	// "disabled", "enabled", "transform" or "prevent".
	StepType string

	// Policy is the label of the policy being evaluated.
	Policy string

	// Kind is the policy's registrant kind.
	Kind Kind

	// Path is the caller path relative to the policy root.
	Path string

	// Details contains step-specific details.
	Details string

	// Duration is how long this step took.
	Duration time.Duration
}

// add appends a step when tracing is enabled.
func (t *EvaluationTrace) add(stepType string, p *Policy, path, details string, d time.Duration) {
	if t == nil {
		return
	}
	t.Steps = append(t.Steps, &TraceStep{
		StepType: stepType,
		Policy:   p.label(),
		Kind:     p.registrant.Kind,
		Path:     path,
		Details:  details,
		Duration: d,
	})
}
