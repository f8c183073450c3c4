package main

import (
	"encoding/json"
	"strings"
	"testing"

	"mercator-hq/logtap/pkg/policy/engine"
)

func setExplainFlags(method, caller, format string) {
	explainFlags.file = "testdata/valid-policies.yaml"
	explainFlags.method = method
	explainFlags.caller = caller
	explainFlags.format = format
}

func TestExplainCall(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		caller      string
		args        []string
		wantOutcome engine.Outcome
		wantOutput  string
		wantApplied []string
	}{
		{
			name:        "tagged warning",
			method:      "warn",
			caller:      "main.go",
			args:        []string{"disk", "full"},
			wantOutcome: engine.OutcomeForward,
			wantOutput:  "[WARN] disk full",
			wantApplied: []string{"tag-warnings"},
		},
		{
			name:        "untouched log",
			method:      "log",
			caller:      "main.go",
			args:        []string{"hello"},
			wantOutcome: engine.OutcomeForward,
			wantOutput:  "hello",
		},
		{
			name:        "debug disabled",
			method:      "debug",
			caller:      "main.go",
			args:        []string{"x"},
			wantOutcome: engine.OutcomeDisabled,
		},
		{
			name:        "test files muted",
			method:      "log",
			caller:      "server_test.go",
			args:        []string{"x"},
			wantOutcome: engine.OutcomeDisabled,
		},
		{
			name:        "health checks dropped",
			method:      "info",
			caller:      "main.go",
			args:        []string{"GET /healthz 200"},
			wantOutcome: engine.OutcomePrevented,
			wantApplied: []string{"drop-health"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out, _ := testCommand(t, "")
			setExplainFlags(tt.method, tt.caller, "json")

			if err := explainCall(cmd, tt.args); err != nil {
				t.Fatalf("explainCall() error = %v", err)
			}

			var got ExplainResult
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON output: %v\n%s", err, out.String())
			}
			if got.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", got.Outcome, tt.wantOutcome)
			}
			if got.Output != tt.wantOutput {
				t.Errorf("Output = %q, want %q", got.Output, tt.wantOutput)
			}
			if strings.Join(got.Applied, ",") != strings.Join(tt.wantApplied, ",") {
				t.Errorf("Applied = %v, want %v", got.Applied, tt.wantApplied)
			}
			if got.Registrant.Kind != engine.KindHost {
				t.Errorf("Registrant.Kind = %v, want host", got.Registrant.Kind)
			}
		})
	}
}

func TestExplainCall_Text(t *testing.T) {
	cmd, out, _ := testCommand(t, "")
	setExplainFlags("debug", "main.go", "text")

	if err := explainCall(cmd, []string{"x"}); err != nil {
		t.Fatalf("explainCall() error = %v", err)
	}

	for _, want := range []string{"Call:     debug from", "disabled    quiet-debug [host]", "Outcome:  disabled"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestExplainCall_Errors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func()
		errMsg string
	}{
		{
			name:   "missing caller",
			setup:  func() { setExplainFlags("log", "", "text") },
			errMsg: "--caller",
		},
		{
			name:   "empty method",
			setup:  func() { setExplainFlags("", "main.go", "text") },
			errMsg: "--method",
		},
		{
			name: "invalid policies",
			setup: func() {
				setExplainFlags("log", "main.go", "text")
				explainFlags.file = "testdata/invalid-policies.yaml"
			},
			errMsg: "command explain failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, _ := testCommand(t, "")
			tt.setup()

			err := explainCall(cmd, nil)
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("explainCall() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}
