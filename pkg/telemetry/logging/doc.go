// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Automatic PII redaction (API keys, emails, SSN, etc.)
//   - Context-aware logging with policy source and batch metadata
//   - A slog.Handler that writes through the intercepted console
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:     "info",
//	    Format:    "json",
//	    RedactPII: true,
//	})
//
//	logger.Info("policies loaded",
//	    "source", "policies.yaml",
//	    "api_key", "sk-abc123", // redacted
//	    "count", 4,
//	)
//
//	ctx = logging.WithSource(ctx, "policies.yaml")
//	logger.WithContext(ctx).Info("reloaded") // includes source
//
// # Console format
//
// With Format "console" records are written through console.Current, one
// console call per record. Policies attached with the intercept package see
// the slog call site as the caller, so a policy matching a package path also
// governs that package's slog output:
//
//	slog.SetDefault(slog.New(logging.NewSinkHandler(nil)))
//	slog.Warn("disk almost full", "free", "2%") // console.Warn("disk almost full", "free=2%")
//
// The console format must not be used for the interceptor's own diagnostics
// logger, since those records would be evaluated by the interceptor again.
//
// # PII Redaction
//
// PII is redacted from messages and string attributes when RedactPII is
// enabled. Attributes whose key names a secret (password, token, api_key,
// ...) are masked entirely:
//
//   - API keys: sk-abc123xyz → sk-***
//   - SSN: 123-45-6789 → ***-**-****
//   - IP addresses: 192.168.1.100 → 192.*.*.*
//   - Bearer tokens: Bearer abc.def → Bearer ***
//
// Patterns are applied in name order so the result is deterministic. Custom
// patterns replace built-in patterns of the same name.
package logging
