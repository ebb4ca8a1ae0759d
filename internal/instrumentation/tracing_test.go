package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a global tracer provider that records every ended span.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[string]interface{} {
	out := make(map[string]interface{})
	for _, kv := range span.Attributes() {
		out[string(kv.Key)] = kv.Value.AsInterface()
	}
	return out
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithService("task").
		WithMethod("BatchUpdateTaskStatus").
		WithWorkspace("ws-1").
		WithReadOnly(false).
		Build()

	require.Len(t, attrs, 4)

	got := make(map[string]interface{})
	for _, attr := range attrs {
		got[string(attr.Key)] = attr.Value.AsInterface()
	}
	assert.Equal(t, "task", got[SpanAttrService])
	assert.Equal(t, "BatchUpdateTaskStatus", got[SpanAttrMethod])
	assert.Equal(t, "ws-1", got[SpanAttrWorkspace])
	assert.Equal(t, false, got[SpanAttrReadOnly])
}

func TestSpanAttributeBuilder_EmptyWorkspace(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithWorkspace("").Build()
	assert.Empty(t, attrs)
}

func TestStartAPISpan(t *testing.T) {
	sr := recordSpans(t)

	ctx, span := StartAPISpan(context.Background(), "task", "GetTasks",
		attribute.String(SpanAttrWorkspace, "ws-1"))
	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
	SetSpanSuccess(span)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tone.task.GetTasks", ended[0].Name())
	assert.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	attrs := spanAttrs(ended[0])
	assert.Equal(t, "task", attrs[SpanAttrService])
	assert.Equal(t, "GetTasks", attrs[SpanAttrMethod])
	assert.Equal(t, "ws-1", attrs[SpanAttrWorkspace])
}

func TestStartToolSpan(t *testing.T) {
	sr := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "get_workspaces")
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.get_workspaces", ended[0].Name())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.Equal(t, "get_workspaces", spanAttrs(ended[0])[SpanAttrTool])
}

func TestSetSpanError(t *testing.T) {
	sr := recordSpans(t)

	_, span := StartAPISpan(context.Background(), "task", "CreateTask")
	SetSpanError(span, nil) // nil error is a no-op
	SetSpanError(span, errors.New("HTTP error! status: 500"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "HTTP error! status: 500", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
}
