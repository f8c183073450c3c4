package config

import "time"

// Config is the root configuration structure for logtap.
// It contains the package root detection settings, the declarative policy
// source, engine options and telemetry settings.
type Config struct {
	// Root controls how package roots are detected for caller files.
	Root RootConfig `yaml:"root"`

	// Policy contains configuration for the declarative policy file
	// including its location and watch mode.
	Policy PolicyConfig `yaml:"policy"`

	// Engine contains configuration for the policy evaluation engine.
	Engine EngineConfig `yaml:"engine"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RootConfig contains package root detection configuration.
type RootConfig struct {
	// Marker is the file name whose presence marks a package root.
	// It must be a bare file name.
	// Default: "go.mod"
	Marker string `yaml:"marker"`

	// Entry is the file or directory the host root is resolved from.
	// Empty means the working directory.
	// Default: ""
	Entry string `yaml:"entry"`
}

// PolicyConfig contains configuration for the declarative policy source.
type PolicyConfig struct {
	// File is the path to a policy YAML file or a directory of them.
	// Empty means no declarative policies are loaded.
	// Default: ""
	File string `yaml:"file"`

	// Watch enables reloading the policy file when it changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after the last file event before
	// a reload is triggered.
	// Default: 100ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// EngineConfig contains policy evaluation configuration.
type EngineConfig struct {
	// EnableTrace records an evaluation trace for every console call and
	// logs it at debug level.
	// Default: false
	EnableTrace bool `yaml:"enable_trace"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration for logtap's own
// diagnostics.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic PII redaction in logs.
	// Redacts API keys, emails, SSN, IP addresses, etc.
	// Default: false
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom PII redaction patterns.
	// Each pattern has a name, regex, and replacement string.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom PII redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "logtap"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "intercept"
	Subsystem string `yaml:"subsystem"`

	// ListenAddress is the address the metrics endpoint listens on.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// MaxMethods bounds the number of distinct method label values.
	// Default: 64
	MaxMethods int `yaml:"max_methods"`
}
