package engine

import (
	"errors"
	"fmt"

	"mercator-hq/logtap/pkg/console"
)

// Common sentinel errors
var (
	// ErrEmptySource indicates a replace-by-source call without a source name.
	ErrEmptySource = errors.New("policy source name is empty")
)

// TransformError reports a failing policy transform. It is returned from
// the intercepted call unchanged; the engine does not recover.
type TransformError struct {
	Policy string
	Method console.Key
	Cause  error
}

// Error returns the error message.
func (e *TransformError) Error() string {
	return fmt.Sprintf("policy %s: transform for %s failed: %v", e.Policy, e.Method, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// PatternError reports a path pattern that could not be evaluated.
type PatternError struct {
	Policy string
	Path   string
	Cause  error
}

// Error returns the error message.
func (e *PatternError) Error() string {
	return fmt.Sprintf("policy %s: path pattern failed on %q: %v", e.Policy, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PatternError) Unwrap() error {
	return e.Cause
}
