package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Engine resolves intercepted calls against a Store.
type Engine struct {
	// store supplies ordered policies
	store *Store

	// config contains engine configuration
	config *EngineConfig

	// logger for structured logging
	logger *slog.Logger
}

// New creates an engine evaluating against store. A nil store gets a fresh
// empty one; a nil config uses DefaultEngineConfig.
func New(store *Store, config *EngineConfig, logger *slog.Logger) *Engine {
	if store == nil {
		store = NewStore()
	}
	if config == nil {
		config = DefaultEngineConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, config: config, logger: logger}
}

// Store returns the policy store the engine reads.
func (e *Engine) Store() *Store {
	return e.store
}

// Evaluate runs call through every applicable policy in store order.
//
// For each policy the caller file is made relative to the policy's
// registrant root. Dependency policies never apply to callers outside their
// root. Method and path filters come next. A policy carrying Disabled
// overwrites the running disabled flag, and while that flag is set the
// policy's transform is skipped. A transform that calls Prevent ends
// evaluation at once.
//
// Errors from transforms are returned as *TransformError and errors from
// path patterns as *PatternError; neither is recovered from.
func (e *Engine) Evaluate(call *Call) (*Decision, error) {
	start := time.Now()

	decision := &Decision{Outcome: OutcomeForward}
	if e.config.EnableTrace {
		decision.Trace = &EvaluationTrace{}
	}

	original := slices.Clone(call.Args)
	args := slices.Clone(call.Args)
	disabled := false

	for _, p := range e.store.Snapshot() {
		stepStart := time.Now()
		reg := p.registrant
		rel, ok := relativePath(reg.RootPath, call.File)

		if reg.Kind == KindDependency && (!ok || escapesRoot(rel)) {
			decision.Trace.add("skip_root", p, rel, fmt.Sprintf("caller outside %s", reg.RootPath), 0)
			continue
		}

		if !p.appliesTo(call.Method) {
			decision.Trace.add("skip_method", p, rel, fmt.Sprintf("method %s not selected", call.Method), 0)
			continue
		}

		if p.Paths != nil {
			ok, err := p.Paths.Match(rel)
			if err != nil {
				e.logger.Debug("path pattern failed", "policy", p.label(), "path", rel, "error", err)
				return nil, &PatternError{Policy: p.label(), Path: rel, Cause: err}
			}
			if !ok {
				decision.Trace.add("skip_path", p, rel, fmt.Sprintf("no match in %s", p.Paths), 0)
				continue
			}
		}

		if p.Disabled != nil {
			disabled = *p.Disabled
			if disabled {
				decision.Trace.add("disabled", p, rel, "call disabled", 0)
				continue
			}
			decision.Trace.add("enabled", p, rel, "call enabled", 0)
		}

		if p.Transform == nil {
			continue
		}

		ctx := &Context{
			Args:       args,
			Method:     call.Method,
			Path:       rel,
			RootPath:   reg.RootPath,
			StackTrace: call.Stack,
			original:   original,
		}
		out, err := p.Transform(ctx)
		if err != nil {
			e.logger.Debug("transform failed", "policy", p.label(), "method", call.Method.String(), "error", err)
			return nil, &TransformError{Policy: p.label(), Method: call.Method, Cause: err}
		}
		args = out
		decision.Applied = append(decision.Applied, p.label())
		decision.Trace.add("transform", p, rel, fmt.Sprintf("%d args", len(out)), time.Since(stepStart))

		if ctx.prevented {
			decision.Trace.add("prevent", p, rel, "call prevented", 0)
			decision.Outcome = OutcomePrevented
			return e.finish(decision, start), nil
		}
	}

	if disabled {
		decision.Outcome = OutcomeDisabled
	} else {
		decision.Args = args
	}
	return e.finish(decision, start), nil
}

func (e *Engine) finish(decision *Decision, start time.Time) *Decision {
	decision.EvaluationTime = time.Since(start)
	if decision.Trace != nil {
		decision.Trace.TotalTime = decision.EvaluationTime
	}
	return decision
}

// relativePath returns file relative to root using forward slashes. An
// empty file yields "". Relative files, as recorded by -trimpath builds, are
// resolved against the working directory first. When no relative form
// exists, file is returned as is and ok is false.
func relativePath(root, file string) (rel string, ok bool) {
	if file == "" {
		return "", true
	}
	if abs, err := filepath.Abs(file); err == nil {
		file = abs
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file), false
	}
	return filepath.ToSlash(rel), true
}

// escapesRoot reports whether a relative path climbs above its root.
func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}
