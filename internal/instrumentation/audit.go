package instrumentation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// maxAuditResourceIDs caps how many task IDs a single audit entry carries.
const maxAuditResourceIDs = 20

// ToolInvocation captures all information about a tool invocation for audit logging.
//
// # Privacy Considerations
//
// WorkspaceID and ResourceIDs identify customer data. They are only emitted by
// LogAuditAttrs, or by LogToolInvocation when the logger includes PII.
type ToolInvocation struct {
	// ID uniquely identifies this invocation across log lines
	ID string

	// Tool name
	Tool string

	// Target information
	WorkspaceID string   // workspace the call is scoped to, if any
	ServiceName string   // tone service (user, group, task)
	Method      string   // RPC name (GetTasks, CreateTask, ...)
	Mode        string   // ModeQuery or ModeMutation
	ResourceIDs []string // task, list or template IDs touched by the call

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success" or "error" based on the Success field.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes for operational logging. Identifiers of
// customer data are left out; use LogAuditAttrs for the full record.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Method != "" {
		attrs = append(attrs, slog.String("method", ti.Method))
	}
	if ti.Mode != "" {
		attrs = append(attrs, slog.String("mode", ti.Mode))
	}
	if len(ti.ResourceIDs) > 0 {
		attrs = append(attrs, slog.Int("resource_count", len(ti.ResourceIDs)))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// the workspace and resource identifiers.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.WorkspaceID != "" {
		attrs = append(attrs, slog.String("workspace", ti.WorkspaceID))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Method != "" {
		attrs = append(attrs, slog.String("method", ti.Method))
	}
	if ti.Mode != "" {
		attrs = append(attrs, slog.String("mode", ti.Mode))
	}
	if len(ti.ResourceIDs) > 0 {
		attrs = append(attrs,
			slog.Any("resource_ids", LimitIDs(ti.ResourceIDs, maxAuditResourceIDs)),
			slog.Int("resource_count", len(ti.ResourceIDs)))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithWorkspace sets the workspace the call is scoped to.
func (ti *ToolInvocation) WithWorkspace(workspaceID string) *ToolInvocation {
	ti.WorkspaceID = workspaceID
	return ti
}

// WithService sets the tone service and RPC name.
func (ti *ToolInvocation) WithService(serviceName, method string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Method = method
	return ti
}

// WithMode records whether the tool reads (ModeQuery) or writes (ModeMutation).
func (ti *ToolInvocation) WithMode(mode string) *ToolInvocation {
	ti.Mode = mode
	return ti
}

// WithResources sets the IDs of the entities the call touches.
func (ti *ToolInvocation) WithResources(ids ...string) *ToolInvocation {
	ti.ResourceIDs = append(ti.ResourceIDs, ids...)
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// Level maps LogLevel to a slog level. Unknown values fall back to info.
func (c AuditLoggingConfig) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger     *slog.Logger
	level      slog.Level
	includePII bool
	enabled    bool
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		level:      config.Level(),
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogToolInvocation logs a tool invocation, including identifiers only when
// the logger is configured with IncludePII. Successful calls are logged at
// the configured level, failures at warn or above.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	if ti.Success {
		al.logger.LogAttrs(context.Background(), al.level, "tool_executed", attrs...)
		return
	}
	al.logger.LogAttrs(context.Background(), max(al.level, slog.LevelWarn), "tool_failed", attrs...)
}
