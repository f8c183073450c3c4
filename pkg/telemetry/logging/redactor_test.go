package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/logtap/pkg/config"
)

func TestNewRedactor(t *testing.T) {
	tests := []struct {
		name           string
		customPatterns []config.RedactPattern
		wantPatterns   int
	}{
		{
			name:         "default patterns only",
			wantPatterns: 9,
		},
		{
			name: "with custom patterns",
			customPatterns: []config.RedactPattern{
				{Name: "custom_token", Pattern: "tok_[a-zA-Z0-9]{32}", Replacement: "tok_***"},
			},
			wantPatterns: 10,
		},
		{
			name: "invalid custom pattern (should skip)",
			customPatterns: []config.RedactPattern{
				{Name: "invalid", Pattern: "[unclosed", Replacement: "***"},
			},
			wantPatterns: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redactor := NewRedactor(tt.customPatterns)
			if len(redactor.patterns) != tt.wantPatterns {
				t.Errorf("patterns = %d, want %d", len(redactor.patterns), tt.wantPatterns)
			}
			if len(redactor.order) != len(redactor.patterns) {
				t.Errorf("order has %d entries for %d patterns", len(redactor.order), len(redactor.patterns))
			}
		})
	}
}

func TestRedactor_RedactString(t *testing.T) {
	redactor := NewRedactor(nil)

	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{name: "api key", input: "key sk-abc123xyz789", want: "key sk-***", changed: true},
		{name: "email", input: "mail alice@example.com", changed: true},
		{name: "ssn", input: "ssn 123-45-6789", changed: true},
		{name: "bearer token", input: "Authorization: Bearer abc.def.ghi", changed: true},
		{name: "password", input: "password=hunter2", want: "password: ***", changed: true},
		{name: "plain", input: "nothing to see here", want: "nothing to see here"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactor.RedactString(tt.input)
			if tt.want != "" && got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if (got != tt.input) != tt.changed {
				t.Errorf("RedactString(%q) = %q, changed = %v, want %v", tt.input, got, got != tt.input, tt.changed)
			}
		})
	}
}

func TestRedactor_RedactValues(t *testing.T) {
	redactor := NewRedactor(nil)

	in := []any{"token sk-abc123", errors.New("password=x1"), 42}
	out := redactor.RedactValues(in)

	if out[0] != "token sk-***" {
		t.Errorf("out[0] = %v", out[0])
	}
	if out[1] != "password: ***" {
		t.Errorf("out[1] = %v", out[1])
	}
	if out[2] != 42 {
		t.Errorf("out[2] = %v, want 42", out[2])
	}
	if in[0] != "token sk-abc123" {
		t.Error("RedactValues modified its input")
	}
}

func TestRedactor_isSensitiveKey(t *testing.T) {
	redactor := NewRedactor(nil)

	for _, key := range []string{"password", "API_KEY", "auth_header", "private_key"} {
		if !redactor.isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = false", key)
		}
	}
	for _, key := range []string{"method", "path", "count"} {
		if redactor.isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = true", key)
		}
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	redactor := NewRedactor([]config.RedactPattern{
		{Name: "custom_id", Pattern: "CUST-[0-9]{6}", Replacement: "CUST-******"},
	})

	if got := redactor.RedactString("Customer CUST-123456 logged in"); got != "Customer CUST-****** logged in" {
		t.Errorf("RedactString() = %q", got)
	}
}

func TestRedactHandler(t *testing.T) {
	buf := &bytes.Buffer{}
	h := &redactHandler{next: slog.NewTextHandler(buf, nil), redactor: NewRedactor(nil)}
	logger := slog.New(h).With("token", "abcdefgh")

	logger.Info("user alice@example.com", "note", "sk-abc123", "count", 3, slog.Group("g", "password", "pw"))

	out := buf.String()
	for _, leaked := range []string{"alice@example.com ", "sk-abc123", "abcdefgh", "=pw"} {
		if strings.Contains(out, leaked) {
			t.Errorf("output leaked %q: %s", leaked, out)
		}
	}
	if !strings.Contains(out, "count=3") {
		t.Errorf("output lost non-sensitive attr: %s", out)
	}
}
