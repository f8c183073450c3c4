package config

import "time"

// ConfigBuilder provides a fluent API for building Config instances in tests.
// It starts with default values and allows selective overrides.
type ConfigBuilder struct {
	cfg Config
}

// NewTestConfig creates a new ConfigBuilder with defaults applied. The
// resulting configuration is valid and can be used immediately.
func NewTestConfig() *ConfigBuilder {
	return &ConfigBuilder{cfg: *NewDefault()}
}

// Build returns the built Config instance.
func (b *ConfigBuilder) Build() *Config {
	return &b.cfg
}

// WithMarker sets the root marker file name.
func (b *ConfigBuilder) WithMarker(marker string) *ConfigBuilder {
	b.cfg.Root.Marker = marker
	return b
}

// WithPolicyFile sets the policy file path.
func (b *ConfigBuilder) WithPolicyFile(path string) *ConfigBuilder {
	b.cfg.Policy.File = path
	return b
}

// WithPolicyWatch enables or disables policy watching.
func (b *ConfigBuilder) WithPolicyWatch(watch bool, debounce time.Duration) *ConfigBuilder {
	b.cfg.Policy.Watch = watch
	b.cfg.Policy.DebounceInterval = debounce
	return b
}

// WithLogging sets the logging level and format.
func (b *ConfigBuilder) WithLogging(level, format string) *ConfigBuilder {
	b.cfg.Telemetry.Logging.Level = level
	b.cfg.Telemetry.Logging.Format = format
	return b
}

// WithMetrics enables metrics on the given address and path.
func (b *ConfigBuilder) WithMetrics(addr, path string) *ConfigBuilder {
	b.cfg.Telemetry.Metrics.Enabled = true
	b.cfg.Telemetry.Metrics.ListenAddress = addr
	b.cfg.Telemetry.Metrics.Path = path
	return b
}
