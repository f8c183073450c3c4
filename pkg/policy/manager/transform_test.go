package manager

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/policy/engine"
)

func ptr[T any](v T) *T { return &v }

func runTransform(t *testing.T, fn engine.TransformFunc, method console.Key, args ...any) ([]any, *engine.Context) {
	t.Helper()
	ctx := &engine.Context{Args: args, Method: method}
	out, err := fn(ctx)
	if err != nil {
		t.Fatalf("transform error = %v", err)
	}
	return out, ctx
}

func TestCompileSteps(t *testing.T) {
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	opts := CompileOptions{Now: func() time.Time { return fixed }}.withDefaults()

	tests := []struct {
		name          string
		steps         []StepSpec
		method        console.Key
		args          []any
		want          []any
		wantPrevented bool
	}{
		{
			name:  "prefix and suffix",
			steps: []StepSpec{{Prefix: ptr("[a]")}, {Suffix: ptr("!")}},
			args:  []any{"msg"},
			want:  []any{"[a]", "msg", "!"},
		},
		{
			name:  "timestamp layout",
			steps: []StepSpec{{Timestamp: ptr("15:04:05")}},
			args:  []any{"msg"},
			want:  []any{"07:08:09", "msg"},
		},
		{
			name:  "timestamp default",
			steps: []StepSpec{{Timestamp: ptr("")}},
			args:  []any{"msg"},
			want:  []any{"2024-05-06T07:08:09Z", "msg"},
		},
		{
			name:   "level tag",
			steps:  []StepSpec{{LevelTag: ptr(true)}},
			method: console.KeyWarn,
			args:   []any{"msg"},
			want:   []any{"[WARN]", "msg"},
		},
		{
			name:   "level tag off",
			steps:  []StepSpec{{LevelTag: ptr(false)}},
			method: console.KeyWarn,
			args:   []any{"msg"},
			want:   []any{"msg"},
		},
		{
			name:  "redact",
			steps: []StepSpec{{Redact: ptr(true)}},
			args:  []any{"key sk-abc123", 7},
			want:  []any{"key sk-***", 7},
		},
		{
			name:          "drop matching stops later steps",
			steps:         []StepSpec{{DropMatching: ptr("^GET /healthz")}, {Prefix: ptr("never")}},
			args:          []any{"GET /healthz 200"},
			want:          []any{"GET /healthz 200"},
			wantPrevented: true,
		},
		{
			name:  "drop matching no match",
			steps: []StepSpec{{DropMatching: ptr("^GET /healthz")}},
			args:  []any{"POST /x"},
			want:  []any{"POST /x"},
		},
		{
			name:  "drop matching ignores non-string first arg",
			steps: []StepSpec{{DropMatching: ptr(".*")}},
			args:  []any{42},
			want:  []any{42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := compileSteps(tt.steps, opts)
			if err != nil {
				t.Fatalf("compileSteps() error = %v", err)
			}
			method := tt.method
			if method == nil {
				method = console.KeyLog
			}
			got, ctx := runTransform(t, fn, method, tt.args...)

			if len(got) != len(tt.want) {
				t.Fatalf("args = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("args[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if ctx.Prevented() != tt.wantPrevented {
				t.Errorf("Prevented() = %v, want %v", ctx.Prevented(), tt.wantPrevented)
			}
		})
	}
}

func TestCompileSteps_None(t *testing.T) {
	fn, err := compileSteps(nil, CompileOptions{})
	if err != nil || fn != nil {
		t.Errorf("compileSteps(nil) = %v, %v; want nil, nil", fn, err)
	}
}

func TestCompileSteps_SuffixDoesNotAlias(t *testing.T) {
	fn, _ := compileSteps([]StepSpec{{Suffix: ptr("s")}}, CompileOptions{}.withDefaults())

	in := make([]any, 1, 4)
	in[0] = "a"
	out, _ := runTransform(t, fn, console.KeyLog, in...)

	if len(out) != 2 || in[:2][1] == "s" {
		t.Error("suffix wrote into the caller's backing array")
	}
}

func TestCompileSteps_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		steps []StepSpec
	}{
		{"empty step", []StepSpec{{}}},
		{"two kinds", []StepSpec{{Prefix: ptr("a"), Suffix: ptr("b")}}},
		{"bad regex", []StepSpec{{Prefix: ptr("a")}, {DropMatching: ptr("(")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileSteps(tt.steps, CompileOptions{}.withDefaults())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.FieldPath == "" {
				t.Error("FieldPath is empty")
			}
		})
	}
}
