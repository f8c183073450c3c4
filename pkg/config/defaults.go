package config

import "time"

// Default values for configuration fields.
const (
	// Root defaults
	DefaultRootMarker = "go.mod"

	// Policy defaults
	DefaultPolicyWatch            = false
	DefaultPolicyDebounceInterval = 100 * time.Millisecond

	// Engine defaults
	DefaultEngineEnableTrace = false

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultMetricsEnabled       = false
	DefaultMetricsNamespace     = "logtap"
	DefaultMetricsSubsystem     = "intercept"
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultPrometheusPath       = "/metrics"
	DefaultMetricsMaxMethods    = 64
)

// ApplyDefaults fills zero-valued fields with their defaults. Boolean
// fields default to false and are left as parsed.
func ApplyDefaults(cfg *Config) {
	// Root defaults
	if cfg.Root.Marker == "" {
		cfg.Root.Marker = DefaultRootMarker
	}

	// Policy defaults
	if cfg.Policy.DebounceInterval == 0 {
		cfg.Policy.DebounceInterval = DefaultPolicyDebounceInterval
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	applyMetricsDefaults(&cfg.Telemetry.Metrics)
}

func applyMetricsDefaults(cfg *MetricsConfig) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPrometheusPath
	}
	if cfg.MaxMethods == 0 {
		cfg.MaxMethods = DefaultMetricsMaxMethods
	}
}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
