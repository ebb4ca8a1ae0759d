package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrService   = "service"
	attrTool      = "tool"
	attrWorkspace = "workspace"
)

// Metric names.
const (
	MetricHTTPRequestsTotal      = "http_requests_total"
	MetricHTTPRequestDuration    = "http_request_duration_seconds"
	MetricAPIRequestsTotal       = "tone_api_requests_total"
	MetricAPIRequestDuration     = "tone_api_request_duration_seconds"
	MetricToolInvocationsTotal   = "mcp_tool_invocations_total"
	MetricToolInvocationDuration = "mcp_tool_duration_seconds"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics (streamable-http transport only)
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// tone API metrics
	apiRequestsTotal   metric.Int64Counter
	apiRequestDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		MetricHTTPRequestsTotal,
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricHTTPRequestsTotal, err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		MetricHTTPRequestDuration,
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricHTTPRequestDuration, err)
	}

	m.apiRequestsTotal, err = meter.Int64Counter(
		MetricAPIRequestsTotal,
		metric.WithDescription("Total number of requests sent to the tone API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricAPIRequestsTotal, err)
	}

	// The client timeout is 30s, so the last bucket catches timeouts.
	m.apiRequestDuration, err = meter.Float64Histogram(
		MetricAPIRequestDuration,
		metric.WithDescription("tone API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricAPIRequestDuration, err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		MetricToolInvocationsTotal,
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricToolInvocationsTotal, err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		MetricToolInvocationDuration,
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricToolInvocationDuration, err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordAPIRequest records one request to the tone API.
//
// Parameters:
//   - service: tone service name (user, group, task)
//   - method: RPC name (GetTasks, BatchUpdateTaskStatus, ...)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the request
func (m *Metrics) RecordAPIRequest(ctx context.Context, service, method, status string, duration time.Duration) {
	if m.apiRequestsTotal == nil || m.apiRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrMethod, method),
		attribute.String(attrStatus, status),
	}

	m.apiRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.apiRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocationWithWorkspace records an MCP tool invocation. The
// workspace ID is only attached when detailedLabels is enabled.
func (m *Metrics) RecordToolInvocationWithWorkspace(ctx context.Context, toolName, status, workspaceID string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	if m.detailedLabels && workspaceID != "" {
		attrs = append(attrs, attribute.String(attrWorkspace, workspaceID))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
