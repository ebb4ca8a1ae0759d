// Package logging provides structured logging utilities for tone-mcp.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog, always written to stderr
//   - PII sanitization (email anonymization, secret masking)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "create_task")
//	logger.Warn("tone mutation failed",
//	    logging.Workspace(workspaceID),
//	    logging.TraceID(traceID))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("configured client",
//	    "secret", logging.SanitizeToken(secret))
//
// # Security Considerations
//
// The bearer secret is never logged directly, and user emails returned by the
// API are hashed so that entries can be correlated without exposing PII.
package logging
