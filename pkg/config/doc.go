// Package config provides configuration management for logtap.
//
// Configuration is read from a YAML file, completed with defaults, overridden
// from the environment and validated:
//
//	cfg, err := config.LoadConfig("logtap.yaml")              // file only
//	cfg, err := config.LoadConfigWithEnvOverrides("logtap.yaml")
//	cfg, err := config.Load("")                               // defaults + env
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOGTAP_SECTION_FIELD:
//
//   - LOGTAP_POLICY_FILE overrides policy.file
//   - LOGTAP_ENGINE_ENABLE_TRACE overrides engine.enable_trace
//   - LOGTAP_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Values from YAML file
//  2. Default values for fields left empty
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example
//
//	root:
//	  marker: go.mod
//	policy:
//	  file: ./policies.yaml
//	  watch: true
//	  debounce_interval: 250ms
//	engine:
//	  enable_trace: false
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    enabled: true
//	    listen_address: 127.0.0.1:9464
//
// # Singleton
//
// Initialize stores the configuration for process-wide access through
// GetConfig. Tests should build a Config directly instead.
package config
