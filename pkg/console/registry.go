package console

import "sync"

var (
	// current is the ambient sink. It is created lazily.
	current Sink

	// currentMu protects current.
	currentMu sync.RWMutex
)

// Current returns the sink all package-level helpers log through.
// A Console writing to stdout/stderr is installed on first use.
func Current() Sink {
	currentMu.RLock()
	s := current
	currentMu.RUnlock()
	if s != nil {
		return s
	}

	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		current = NewStd()
	}
	return current
}

// Replace installs s as the current sink and returns the sink it replaced.
// Passing nil restores a fresh standard Console on next use.
func Replace(s Sink) Sink {
	currentMu.Lock()
	defer currentMu.Unlock()

	prev := current
	if prev == nil {
		prev = NewStd()
	}
	current = s
	return prev
}

// Call invokes the method key on the current sink.
func Call(key Key, args ...any) error {
	return Current().Call(key, args...)
}

// Debug logs through the current sink's debug method.
func Debug(args ...any) error {
	return Current().Call(KeyDebug, args...)
}

// Log logs through the current sink's log method.
func Log(args ...any) error {
	return Current().Call(KeyLog, args...)
}

// Info logs through the current sink's info method.
func Info(args ...any) error {
	return Current().Call(KeyInfo, args...)
}

// Warn logs through the current sink's warn method.
func Warn(args ...any) error {
	return Current().Call(KeyWarn, args...)
}

// Error logs through the current sink's error method.
func Error(args ...any) error {
	return Current().Call(KeyError, args...)
}
