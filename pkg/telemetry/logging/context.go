package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// SourceKey is the context key for the policy source being processed.
	SourceKey contextKey = "source"

	// BatchKey is the context key for a registration batch ID.
	BatchKey contextKey = "batch"

	// ComponentKey is the context key for the emitting component.
	ComponentKey contextKey = "component"
)

// WithSource adds a policy source name to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the policy source name from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

// WithBatch adds a registration batch ID to the context.
func WithBatch(ctx context.Context, batch string) context.Context {
	return context.WithValue(ctx, BatchKey, batch)
}

// GetBatch retrieves the registration batch ID from the context.
func GetBatch(ctx context.Context) string {
	if batch, ok := ctx.Value(BatchKey).(string); ok {
		return batch
	}
	return ""
}

// WithComponent adds a component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, ComponentKey, component)
}

// GetComponent retrieves the component name from the context.
func GetComponent(ctx context.Context) string {
	if component, ok := ctx.Value(ComponentKey).(string); ok {
		return component
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if component := GetComponent(ctx); component != "" {
		fields = append(fields, "component", component)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, "source", source)
	}
	if batch := GetBatch(ctx); batch != "" {
		fields = append(fields, "batch", batch)
	}

	return fields
}
