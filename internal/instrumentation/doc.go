// Package instrumentation provides OpenTelemetry instrumentation for the
// tone-mcp server.
//
// This package enables observability through:
//   - OpenTelemetry metrics for tone API requests, MCP tool invocations and
//     (in streamable-http mode) inbound HTTP requests
//   - Distributed tracing for tool invocations and outbound API calls
//   - Prometheus metrics export via /metrics on a dedicated port
//   - OTLP export support for modern observability platforms
//   - Audit logging of every tool invocation
//
// # Metrics
//
// tone API Metrics:
//   - tone_api_requests_total: Counter of API requests by service, method, status
//   - tone_api_request_duration_seconds: Histogram of API request durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//
// Server/HTTP Metrics (streamable-http transport):
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - tone API calls (tone.<service>.<Method>), with otelhttp child spans
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: tone-mcp)
//   - METRICS_DETAILED_LABELS: Add the workspace ID to tool metrics
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII, AUDIT_LOGGING_LEVEL
//
// The "stdout" exporters write to stderr, since stdout carries the MCP stdio
// transport.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIRequest(ctx, "task", "GetTasks", "success", time.Since(start))
//	recorder.RecordToolInvocationWithWorkspace(ctx, "get_tasks", "success", "", time.Since(start))
package instrumentation
