package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"

	"github.com/tone-task/tone-mcp/internal/instrumentation"
	"github.com/tone-task/tone-mcp/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandlerWithService wraps a tool handler with tracing,
// metrics and audit logging, labelled with the tone service and RPC the tool
// calls. The RPC name decides whether the invocation is logged as a query or
// a mutation.
//
// The API request itself is measured by the tone client
// (tone_api_requests_total); this wrapper records the tool-level view
// (mcp_tool_invocations_total, mcp_tool_duration_seconds).
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandlerWithService("get_tasks", "task", "GetTasks", sc, handler))
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		workspaceID := GetWorkspaceFromArgs(args)

		attrs := instrumentation.NewSpanAttributeBuilder().WithWorkspace(workspaceID)
		if serviceName != "" {
			attrs.WithService(serviceName).
				WithMethod(operation).
				WithReadOnly(instrumentation.ModeFor(operation) == instrumentation.ModeQuery)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()

		// Get metrics and audit logger (may be nil if not configured)
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		// If no instrumentation configured, just call the handler
		if metrics == nil && auditLogger == nil {
			result, err := handler(ctx, request)
			markSpan(span, result, err)
			return result, err
		}

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithWorkspace(workspaceID).
			WithResources(GetResourceIDsFromArgs(args)...)
		if serviceName != "" {
			invocation.WithService(serviceName, operation).
				WithMode(instrumentation.ModeFor(operation))
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)
		markSpan(span, result, err)

		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocationWithWorkspace(ctx, toolName, status, workspaceID, duration)
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}

// errToolResult marks spans of tools that answered with an error result.
var errToolResult = errors.New("tool returned an error result")

func markSpan(span trace.Span, result *mcp.CallToolResult, err error) {
	switch {
	case err != nil:
		instrumentation.SetSpanError(span, err)
	case result != nil && result.IsError:
		instrumentation.SetSpanError(span, errToolResult)
	default:
		instrumentation.SetSpanSuccess(span)
	}
}
