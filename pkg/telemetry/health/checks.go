package health

import (
	"context"
	"errors"

	"mercator-hq/logtap/pkg/intercept"
)

// ErrNotAttached is reported by InterceptorCheck while the console is not
// intercepted.
var ErrNotAttached = errors.New("console interceptor is not attached")

// InterceptorCheck fails while the interceptor is not installed.
func InterceptorCheck() CheckFunc {
	return func(context.Context) error {
		if !intercept.Attached() {
			return ErrNotAttached
		}
		return nil
	}
}

// LastErrorCheck fails while lastErr returns an error, such as the result
// of the most recent policy load.
func LastErrorCheck(lastErr func() error) CheckFunc {
	return func(context.Context) error {
		return lastErr()
	}
}
