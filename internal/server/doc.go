// Package server provides the MCP server context and the HTTP plumbing
// around it for the tone-mcp application.
//
// # Key Components
//
// ServerContext owns the shared tone API client together with the optional
// metrics recorder and audit logger used by tool handlers.
//
// HTTPServer serves the MCP server over the streamable HTTP transport at
// /mcp, with request metrics and OpenTelemetry server spans. Health
// endpoints for Kubernetes probes are provided by HealthChecker:
//   - /healthz: liveness
//   - /readyz: readiness (ready flag, shutdown state, API client)
//   - /healthz/detailed: uptime, version and tool mode
//
// MetricsServer exposes Prometheus metrics on a dedicated port so that
// operational data is not reachable through the MCP endpoint.
package server
