package engine

// EngineConfig contains configuration for the evaluation engine.
type EngineConfig struct {
	// EnableTrace enables detailed evaluation tracing for debugging.
	// Warning: Enabling trace adds an allocation per evaluated policy.
	// Default: false.
	EnableTrace bool
}

// DefaultEngineConfig returns the default engine configuration.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		EnableTrace: false,
	}
}

// WithTrace enables or disables evaluation tracing.
func (c *EngineConfig) WithTrace(enabled bool) *EngineConfig {
	c.EnableTrace = enabled
	return c
}
