package stack

import (
	"fmt"
	"strings"
)

// Frame is a read-only snapshot of one call-site on the stack.
//
// Fields that have no meaning for a given frame hold their zero value; Line
// and Column are nil when unknown. The Go runtime reports no columns and no
// promise combinators or eval origins, so Column, IsPromiseAll,
// PromiseIndex, IsEval and EvalOrigin are never populated by Capture.
type Frame struct {
	// File is the absolute source file path, or "" for frames without one.
	File string

	// Line is the 1-based line number, or nil.
	Line *int

	// Column is the 1-based column number, or nil.
	Column *int

	// Package is the import path of the package the function belongs to.
	Package string

	// TypeName is the receiver type for methods, without pointer or
	// generic decoration.
	TypeName string

	// FunctionName is the package-relative function name, e.g.
	// "(*Console).log" or "main.func1".
	FunctionName string

	// MethodName is the method name for methods.
	MethodName string

	IsToplevel    bool
	IsNative      bool
	IsConstructor bool

	// IsAsync marks the entry frame of a goroutine.
	IsAsync bool

	IsPromiseAll bool
	PromiseIndex *int
	IsEval       bool
	EvalOrigin   string
}

// String renders the frame as "pkg.Function (file:line)".
func (f Frame) String() string {
	name := f.FunctionName
	if f.Package != "" {
		name = f.Package + "." + name
	}
	if name == "" {
		name = "<anonymous>"
	}

	switch {
	case f.File == "":
		return name + " (native)"
	case f.Line == nil:
		return fmt.Sprintf("%s (%s)", name, f.File)
	default:
		return fmt.Sprintf("%s (%s:%d)", name, f.File, *f.Line)
	}
}

// splitName splits a runtime function name such as
// "example.com/a/b.(*T).M.func1" into its package path and the
// package-relative remainder. Dots in the last path element, escaped by the
// linker as "%2e" or left as a gopkg.in style ".vN" suffix, stay in the
// package path.
func splitName(full string) (pkg, rest string) {
	i := strings.LastIndex(full, "/") + 1
	for {
		dot := strings.Index(full[i:], ".")
		if dot < 0 {
			return "", full
		}
		dot += i
		if isVersionSuffix(full[dot+1:]) {
			i = dot + 1
			continue
		}
		return strings.ReplaceAll(full[:dot], "%2e", "."), full[dot+1:]
	}
}

// isVersionSuffix reports whether s starts with "vN." such as "v3.Decode".
func isVersionSuffix(s string) bool {
	if len(s) < 3 || s[0] != 'v' {
		return false
	}
	n := 1
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n > 1 && n < len(s) && s[n] == '.'
}

// describe fills the naming fields of f from the package-relative name.
func describe(f *Frame, rest string) {
	rest = strings.TrimSuffix(rest, "-fm")
	rest = stripGenerics(rest)
	f.FunctionName = rest

	parts := strings.Split(rest, ".")
	switch {
	case strings.HasPrefix(parts[0], "("):
		f.TypeName = strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		f.TypeName = strings.TrimPrefix(f.TypeName, "(")
		if len(parts) > 1 {
			f.MethodName = parts[1]
		}
	case len(parts) > 1 && !isClosure(parts[1]):
		f.TypeName = parts[0]
		f.MethodName = parts[1]
	default:
		f.IsToplevel = true
		f.IsConstructor = strings.HasPrefix(parts[0], "New") && len(parts) == 1
	}
}

func stripGenerics(name string) string {
	for {
		open := strings.Index(name, "[")
		if open < 0 {
			return name
		}
		end := strings.Index(name[open:], "]")
		if end < 0 {
			return name[:open]
		}
		name = name[:open] + name[open+end+1:]
	}
}

func isClosure(part string) bool {
	if strings.HasPrefix(part, "func") || strings.HasPrefix(part, "gowrap") || strings.HasPrefix(part, "deferwrap") {
		return true
	}
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return part != ""
}
