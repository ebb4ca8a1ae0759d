// Package common provides shared utilities for MCP tool implementations:
// argument validation helpers and the instrumentation wrapper that adds
// tracing, metrics and audit logging around every tool handler.
package common
