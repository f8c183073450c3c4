package manager

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"mercator-hq/logtap/pkg/policy/engine"
	"mercator-hq/logtap/pkg/telemetry/logging"
)

// step rewrites the working arguments of one call.
type step func(ctx *engine.Context, args []any) []any

// CompileOptions tune how specs become engine policies.
type CompileOptions struct {
	// Now returns the time used by timestamp steps. Default: time.Now.
	Now func() time.Time

	// Redactor is used by redact steps. Default: built-in patterns only.
	Redactor *logging.Redactor
}

func (o CompileOptions) withDefaults() CompileOptions {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Redactor == nil {
		o.Redactor = logging.NewRedactor(nil)
	}
	return o
}

// compileSteps builds a single transform out of specs. It returns nil when
// there are no steps.
func compileSteps(specs []StepSpec, opts CompileOptions) (engine.TransformFunc, error) {
	if len(specs) == 0 {
		return nil, nil
	}

	steps := make([]step, 0, len(specs))
	for i, s := range specs {
		st, err := compileStep(s, opts)
		if err != nil {
			return nil, &ValidationError{
				FieldPath: fmt.Sprintf("transform[%d]", i),
				Message:   "invalid step",
				Cause:     err,
			}
		}
		steps = append(steps, st)
	}

	return func(ctx *engine.Context) ([]any, error) {
		args := ctx.Args
		for _, st := range steps {
			args = st(ctx, args)
			if ctx.Prevented() {
				break
			}
		}
		return args, nil
	}, nil
}

func compileStep(s StepSpec, opts CompileOptions) (step, error) {
	switch s.name() {
	case "prefix":
		v := *s.Prefix
		return func(_ *engine.Context, args []any) []any {
			return append([]any{v}, args...)
		}, nil

	case "suffix":
		v := *s.Suffix
		return func(_ *engine.Context, args []any) []any {
			return append(args[:len(args):len(args)], v)
		}, nil

	case "timestamp":
		layout := *s.Timestamp
		if layout == "" {
			layout = time.RFC3339
		}
		now := opts.Now
		return func(_ *engine.Context, args []any) []any {
			return append([]any{now().Format(layout)}, args...)
		}, nil

	case "level_tag":
		if !*s.LevelTag {
			return passThrough, nil
		}
		return func(ctx *engine.Context, args []any) []any {
			tag := "[" + strings.ToUpper(ctx.Method.String()) + "]"
			return append([]any{tag}, args...)
		}, nil

	case "redact":
		if !*s.Redact {
			return passThrough, nil
		}
		r := opts.Redactor
		return func(_ *engine.Context, args []any) []any {
			return r.RedactValues(args)
		}, nil

	case "drop_matching":
		re, err := regexp.Compile(*s.DropMatching)
		if err != nil {
			return nil, err
		}
		return func(ctx *engine.Context, args []any) []any {
			if len(args) > 0 {
				if first, ok := args[0].(string); ok && re.MatchString(first) {
					ctx.Prevent()
				}
			}
			return args
		}, nil

	default:
		return nil, fmt.Errorf("step must set exactly one of prefix, suffix, timestamp, level_tag, redact or drop_matching")
	}
}

func passThrough(_ *engine.Context, args []any) []any {
	return args
}
