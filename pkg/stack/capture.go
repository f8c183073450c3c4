package stack

import (
	"reflect"
	"runtime"
	"strings"
	"sync"
)

var (
	internalMu sync.RWMutex
	internal   = map[string]bool{}

	// boundary packages end unwinding. Everything below them is runtime or
	// test-harness plumbing.
	boundary = map[string]bool{
		"runtime": true,
		"testing": true,
	}
)

// MarkInternal registers package import paths whose frames Capture skips.
func MarkInternal(pkgs ...string) {
	internalMu.Lock()
	defer internalMu.Unlock()

	for _, p := range pkgs {
		if p != "" {
			internal[p] = true
		}
	}
}

// IsInternal reports whether frames of pkg are skipped by Capture.
func IsInternal(pkg string) bool {
	internalMu.RLock()
	defer internalMu.RUnlock()
	return internal[pkg]
}

// PackageOf returns the import path of the package that declares fn.
// It returns "" if fn is not a function.
func PackageOf(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	pkg, _ := splitName(f.Name())
	return pkg
}

// Capture returns the frames of the calling goroutine starting at the caller
// of Capture, skipping skip additional frames. Frames of internal packages
// are dropped and unwinding stops at the first boundary frame.
func Capture(skip int) []Frame {
	raw := callers(skip + 3)

	frames := make([]Frame, 0, len(raw))
	for i, rf := range raw {
		pkg, rest := splitName(rf.Function)
		if boundary[pkg] {
			break
		}
		if IsInternal(pkg) {
			continue
		}

		f := Frame{Package: pkg}
		describe(&f, rest)

		if rf.File != "" && rf.File != "<autogenerated>" {
			f.File = rf.File
			if rf.Line > 0 {
				line := rf.Line
				f.Line = &line
			}
		}
		f.IsNative = f.File == "" || strings.HasSuffix(f.File, ".s")
		f.IsAsync = i+1 < len(raw) && raw[i+1].Function == "runtime.goexit"

		frames = append(frames, f)
	}
	return frames
}

// CallerFile returns the first non-empty file in frames, or "".
func CallerFile(frames []Frame) string {
	for _, f := range frames {
		if f.File != "" {
			return f.File
		}
	}
	return ""
}

// callers collects raw runtime frames, skipping skip frames counted from
// runtime.Callers itself.
func callers(skip int) []runtime.Frame {
	pcs := make([]uintptr, 64)
	for {
		n := runtime.Callers(skip, pcs)
		if n < len(pcs) {
			pcs = pcs[:n]
			break
		}
		pcs = make([]uintptr, len(pcs)*2)
	}

	if len(pcs) == 0 {
		return nil
	}

	var out []runtime.Frame
	it := runtime.CallersFrames(pcs)
	for {
		frame, more := it.Next()
		out = append(out, frame)
		if !more {
			break
		}
	}
	return out
}
