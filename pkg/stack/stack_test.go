package stack

import (
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		full string
		pkg  string
		rest string
	}{
		{"main.main", "main", "main"},
		{"mercator-hq/logtap/pkg/console.(*Console).log-fm", "mercator-hq/logtap/pkg/console", "(*Console).log-fm"},
		{"github.com/a/b.v2.Func.func1", "github.com/a/b.v2", "Func.func1"},
		{"gopkg.in/yaml.v3.(*Decoder).Decode", "gopkg.in/yaml.v3", "(*Decoder).Decode"},
		{"gopkg.in/yaml%2ev3.handleErr", "gopkg.in/yaml.v3", "handleErr"},
		{"github.com/a/b.v2", "github.com/a/b", "v2"},
		{"github.com/a/b.vx.Func", "github.com/a/b", "vx.Func"},
		{"github.com/a/b.Func.func1", "github.com/a/b", "Func.func1"},
		{"nodots", "", "nodots"},
	}

	for _, tt := range tests {
		t.Run(tt.full, func(t *testing.T) {
			pkg, rest := splitName(tt.full)
			if pkg != tt.pkg || rest != tt.rest {
				t.Errorf("splitName(%q) = (%q, %q), want (%q, %q)", tt.full, pkg, rest, tt.pkg, tt.rest)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		rest        string
		function    string
		typeName    string
		method      string
		toplevel    bool
		constructor bool
	}{
		{"(*Console).log-fm", "(*Console).log", "Console", "log", false, false},
		{"Store.Len", "Store.Len", "Store", "Len", false, false},
		{"(*Cache[...]).Get", "(*Cache).Get", "Cache", "Get", false, false},
		{"main", "main", "", "", true, false},
		{"New", "New", "", "", true, true},
		{"NewEngine", "NewEngine", "", "", true, true},
		{"NewEngine.func1", "NewEngine.func1", "", "", true, false},
		{"run.func2.1", "run.func2.1", "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.rest, func(t *testing.T) {
			var f Frame
			describe(&f, tt.rest)

			if f.FunctionName != tt.function {
				t.Errorf("FunctionName = %q, want %q", f.FunctionName, tt.function)
			}
			if f.TypeName != tt.typeName {
				t.Errorf("TypeName = %q, want %q", f.TypeName, tt.typeName)
			}
			if f.MethodName != tt.method {
				t.Errorf("MethodName = %q, want %q", f.MethodName, tt.method)
			}
			if f.IsToplevel != tt.toplevel {
				t.Errorf("IsToplevel = %v, want %v", f.IsToplevel, tt.toplevel)
			}
			if f.IsConstructor != tt.constructor {
				t.Errorf("IsConstructor = %v, want %v", f.IsConstructor, tt.constructor)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	frames := Capture(0)
	if len(frames) == 0 {
		t.Fatal("Capture() returned no frames")
	}

	top := frames[0]
	if filepath.Base(top.File) != "stack_test.go" {
		t.Errorf("top frame file = %q, want stack_test.go", top.File)
	}
	if top.FunctionName != "TestCapture" {
		t.Errorf("top frame function = %q, want TestCapture", top.FunctionName)
	}
	if top.Line == nil || *top.Line <= 0 {
		t.Errorf("top frame line = %v, want positive", top.Line)
	}
	if top.Column != nil {
		t.Errorf("top frame column = %v, want nil", *top.Column)
	}

	for _, f := range frames {
		if f.Package == "testing" || f.Package == "runtime" {
			t.Errorf("boundary frame %s leaked into capture", f)
		}
	}
}

func TestCaptureSkip(t *testing.T) {
	helper := func() []Frame { return Capture(1) }

	frames := helper()
	if len(frames) == 0 {
		t.Fatal("Capture(1) returned no frames")
	}
	if frames[0].FunctionName != "TestCaptureSkip" {
		t.Errorf("top frame function = %q, want TestCaptureSkip", frames[0].FunctionName)
	}
}

func TestCaptureSkipsInternal(t *testing.T) {
	pkg := PackageOf(TestCaptureSkipsInternal)
	MarkInternal(pkg)
	defer func() {
		internalMu.Lock()
		delete(internal, pkg)
		internalMu.Unlock()
	}()

	for _, f := range Capture(0) {
		if f.Package == pkg {
			t.Errorf("internal frame %s was not skipped", f)
		}
	}
}

func TestCaptureAsync(t *testing.T) {
	ch := make(chan []Frame)
	go func() { ch <- Capture(0) }()

	frames := <-ch
	if len(frames) == 0 {
		t.Fatal("Capture() in goroutine returned no frames")
	}
	if !frames[len(frames)-1].IsAsync {
		t.Errorf("goroutine entry frame %s not marked async", frames[len(frames)-1])
	}
}

func TestPackageOf(t *testing.T) {
	if got := PackageOf(Capture); got != "mercator-hq/logtap/pkg/stack" {
		t.Errorf("PackageOf(Capture) = %q", got)
	}
	if got := PackageOf(strings.ToUpper); got != "strings" {
		t.Errorf("PackageOf(strings.ToUpper) = %q", got)
	}
	if got := PackageOf(yaml.Marshal); got != "gopkg.in/yaml.v3" {
		t.Errorf("PackageOf(yaml.Marshal) = %q, want gopkg.in/yaml.v3", got)
	}
	if got := PackageOf(42); got != "" {
		t.Errorf("PackageOf(42) = %q, want empty", got)
	}
}

func TestCallerFile(t *testing.T) {
	frames := []Frame{{}, {File: "/a/b.go"}, {File: "/c/d.go"}}
	if got := CallerFile(frames); got != "/a/b.go" {
		t.Errorf("CallerFile() = %q, want /a/b.go", got)
	}
	if got := CallerFile(nil); got != "" {
		t.Errorf("CallerFile(nil) = %q, want empty", got)
	}
}

func TestFrameString(t *testing.T) {
	line := 12
	tests := []struct {
		frame Frame
		want  string
	}{
		{Frame{Package: "main", FunctionName: "main", File: "/x/main.go", Line: &line}, "main.main (/x/main.go:12)"},
		{Frame{Package: "main", FunctionName: "run"}, "main.run (native)"},
		{Frame{FunctionName: "f", File: "/x/f.go"}, "f (/x/f.go)"},
	}

	for _, tt := range tests {
		if got := tt.frame.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
