package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override
// configuration fields.
const EnvPrefix = "LOGTAP_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention LOGTAP_SECTION_FIELD (e.g., LOGTAP_POLICY_FILE).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// Load is LoadConfigWithEnvOverrides, except that an empty path starts from
// the defaults instead of a file.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadConfigWithEnvOverrides(path)
	}

	cfg := NewDefault()
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Unparseable boolean and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Root overrides
	envString(&cfg.Root.Marker, "ROOT_MARKER")
	envString(&cfg.Root.Entry, "ROOT_ENTRY")

	// Policy overrides
	envString(&cfg.Policy.File, "POLICY_FILE")
	envBool(&cfg.Policy.Watch, "POLICY_WATCH")
	envDuration(&cfg.Policy.DebounceInterval, "POLICY_DEBOUNCE_INTERVAL")

	// Engine overrides
	envBool(&cfg.Engine.EnableTrace, "ENGINE_ENABLE_TRACE")

	// Telemetry overrides
	envString(&cfg.Telemetry.Logging.Level, "TELEMETRY_LOGGING_LEVEL")
	envString(&cfg.Telemetry.Logging.Format, "TELEMETRY_LOGGING_FORMAT")
	envBool(&cfg.Telemetry.Logging.AddSource, "TELEMETRY_LOGGING_ADD_SOURCE")
	envBool(&cfg.Telemetry.Logging.RedactPII, "TELEMETRY_LOGGING_REDACT_PII")
	envBool(&cfg.Telemetry.Metrics.Enabled, "TELEMETRY_METRICS_ENABLED")
	envString(&cfg.Telemetry.Metrics.Namespace, "TELEMETRY_METRICS_NAMESPACE")
	envString(&cfg.Telemetry.Metrics.Subsystem, "TELEMETRY_METRICS_SUBSYSTEM")
	envString(&cfg.Telemetry.Metrics.ListenAddress, "TELEMETRY_METRICS_LISTEN_ADDRESS")
	envString(&cfg.Telemetry.Metrics.Path, "TELEMETRY_METRICS_PATH")
	if val := os.Getenv(EnvPrefix + "TELEMETRY_METRICS_MAX_METHODS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Telemetry.Metrics.MaxMethods = i
		}
	}
}

func envString(dst *string, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envBool(dst *bool, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(dst *time.Duration, name string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
