package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{name: "valid defaults", modify: func(*Config) {}},
		{name: "empty marker", modify: func(c *Config) { c.Root.Marker = "" }, wantField: "root.marker"},
		{name: "marker path", modify: func(c *Config) { c.Root.Marker = "dir/go.mod" }, wantField: "root.marker"},
		{name: "marker dotdot", modify: func(c *Config) { c.Root.Marker = ".." }, wantField: "root.marker"},
		{name: "watch without file", modify: func(c *Config) { c.Policy.Watch = true }, wantField: "policy.file"},
		{name: "negative debounce", modify: func(c *Config) { c.Policy.DebounceInterval = -1 }, wantField: "policy.debounce_interval"},
		{name: "empty level", modify: func(c *Config) { c.Telemetry.Logging.Level = "" }, wantField: "telemetry.logging.level"},
		{name: "bad level", modify: func(c *Config) { c.Telemetry.Logging.Level = "trace" }, wantField: "telemetry.logging.level"},
		{name: "console format", modify: func(c *Config) { c.Telemetry.Logging.Format = "console" }},
		{name: "bad format", modify: func(c *Config) { c.Telemetry.Logging.Format = "xml" }, wantField: "telemetry.logging.format"},
		{
			name: "unnamed redact pattern",
			modify: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Pattern: "x"}}
			},
			wantField: "telemetry.logging.redact_patterns[0].name",
		},
		{
			name: "bad redact pattern",
			modify: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "x", Pattern: "("}}
			},
			wantField: "telemetry.logging.redact_patterns[0].pattern",
		},
		{name: "bad namespace", modify: func(c *Config) { c.Telemetry.Metrics.Namespace = "log-tap" }, wantField: "telemetry.metrics.namespace"},
		{name: "bad subsystem", modify: func(c *Config) { c.Telemetry.Metrics.Subsystem = "9x" }, wantField: "telemetry.metrics.subsystem"},
		{name: "negative max methods", modify: func(c *Config) { c.Telemetry.Metrics.MaxMethods = -1 }, wantField: "telemetry.metrics.max_methods"},
		{
			name: "disabled metrics ignore address",
			modify: func(c *Config) {
				c.Telemetry.Metrics.ListenAddress = ""
				c.Telemetry.Metrics.Path = "metrics"
			},
		},
		{
			name: "enabled metrics require address",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.ListenAddress = ""
			},
			wantField: "telemetry.metrics.listen_address",
		},
		{
			name: "enabled metrics path slash",
			modify: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.Path = "metrics"
			},
			wantField: "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewTestConfig().Build()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	if got := (ValidationError{}).Error(); got != "configuration validation failed" {
		t.Errorf("empty = %q", got)
	}

	one := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := one.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("one = %q", got)
	}

	two := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	got := two.Error()
	if !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse\n") {
		t.Errorf("two = %q", got)
	}
}
