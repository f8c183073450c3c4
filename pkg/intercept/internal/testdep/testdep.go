// Package testdep stands in for a third-party library that registers its
// own policies and logs through the console.
package testdep

import (
	"path/filepath"
	"runtime"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/intercept"
	"mercator-hq/logtap/pkg/policy/engine"
)

// Message is what Log writes.
const Message = "module with logger"

// Dir returns the directory of this package, which tests treat as the
// library's package root.
func Dir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// Init attaches policies on behalf of the library.
func Init(policies ...engine.Policy) {
	intercept.Attach(policies...)
}

// Log logs Message through the current console.
func Log() error {
	return console.Log(Message)
}
