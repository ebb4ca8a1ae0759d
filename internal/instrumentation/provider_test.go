package instrumentation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Enabled:        false,
	})
	require.NoError(t, err)
	require.NotNil(t, provider)

	assert.False(t, provider.Enabled())
	assert.NotNil(t, provider.Metrics(), "metrics should be a no-op recorder when disabled")
	assert.False(t, provider.PrometheusEnabled())
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		metrics        string
		tracing        string
		wantPrometheus bool
	}{
		{name: "prometheus metrics, no tracing", metrics: ExporterPrometheus, tracing: ExporterNone, wantPrometheus: true},
		{name: "defaults", wantPrometheus: true},
		{name: "stdout metrics and tracing", metrics: ExporterStdout, tracing: ExporterStdout, wantPrometheus: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			var debug bytes.Buffer
			provider, err := NewProvider(ctx, Config{
				ServiceName:       "test-service",
				ServiceVersion:    "1.0.0",
				Enabled:           true,
				MetricsExporter:   tt.metrics,
				TracingExporter:   tt.tracing,
				TraceSamplingRate: 1,
				DebugWriter:       &debug,
			})
			require.NoError(t, err)
			defer func() { _ = provider.Shutdown(ctx) }()

			assert.True(t, provider.Enabled())
			assert.NotNil(t, provider.Metrics())
			assert.Equal(t, tt.wantPrometheus, provider.PrometheusEnabled())
			assert.Equal(t, "test-service", provider.Config().ServiceName)
		})
	}
}

func TestNewProvider_StdoutExportersWriteToDebugWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var debug bytes.Buffer
	provider, err := NewProvider(ctx, Config{
		ServiceName:       "test-service",
		Enabled:           true,
		MetricsExporter:   ExporterStdout,
		TracingExporter:   ExporterStdout,
		TraceSamplingRate: 1,
		DebugWriter:       &debug,
	})
	require.NoError(t, err)

	_, span := StartAPISpan(ctx, "task", "GetTasks")
	span.End()
	require.NoError(t, provider.Shutdown(ctx))

	assert.Contains(t, debug.String(), "tone.task.GetTasks")
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "invalid metrics exporter",
			config: Config{Enabled: true, MetricsExporter: "invalid", TracingExporter: ExporterNone},
		},
		{
			name:   "invalid tracing exporter",
			config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: "invalid"},
		},
		{
			name:   "otlp tracing without endpoint",
			config: Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP},
		},
		{
			name:   "otlp metrics without endpoint",
			config: Config{Enabled: true, MetricsExporter: ExporterOTLP, TracingExporter: ExporterNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			tt.config.ServiceName = "test-service"
			_, err := NewProvider(ctx, tt.config)
			assert.Error(t, err)
		})
	}
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(Config{
		ServiceName:       "tone-mcp",
		ServiceVersion:    "1.2.3",
		ServiceInstanceID: "pod-1",
		Deployment: Deployment{
			APIBaseURL: "https://api.tone-task.app",
			Transport:  "streamable-http",
			ReadOnly:   true,
		},
	})

	got := make(map[attribute.Key]interface{}, len(attrs))
	for _, kv := range attrs {
		got[kv.Key] = kv.Value.AsInterface()
	}
	assert.Equal(t, "tone-mcp", got[semconv.ServiceNameKey])
	assert.Equal(t, "1.2.3", got[semconv.ServiceVersionKey])
	assert.Equal(t, "pod-1", got[semconv.ServiceInstanceIDKey])
	assert.Equal(t, "https://api.tone-task.app", got[attribute.Key(ResourceAttrAPIBaseURL)])
	assert.Equal(t, "streamable-http", got[attribute.Key(ResourceAttrTransport)])
	assert.Equal(t, true, got[attribute.Key(ResourceAttrReadOnly)])
}

func TestResourceAttributes_OmitsEmptyDeployment(t *testing.T) {
	attrs := resourceAttributes(Config{ServiceName: "tone-mcp", ServiceInstanceID: "pod-1"})

	keys := make(map[attribute.Key]bool, len(attrs))
	for _, kv := range attrs {
		keys[kv.Key] = true
	}
	assert.False(t, keys[attribute.Key(ResourceAttrAPIBaseURL)])
	assert.False(t, keys[attribute.Key(ResourceAttrTransport)])
	assert.True(t, keys[attribute.Key(ResourceAttrReadOnly)])
}
