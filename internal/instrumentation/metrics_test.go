package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics returns Metrics backed by a manual reader so tests can
// inspect what was recorded.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailedLabels)
	require.NoError(t, err)
	return m, reader
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			return sum.DataPoints
		}
	}
	return nil
}

func attrValue(set attribute.Set, key string) string {
	v, ok := set.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.AsString()
}

func TestMetrics_RecordAPIRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordAPIRequest(ctx, "task", "GetTasks", StatusSuccess, 120*time.Millisecond)
	m.RecordAPIRequest(ctx, "task", "GetTasks", StatusSuccess, 80*time.Millisecond)
	m.RecordAPIRequest(ctx, "user", "GetMySelf", StatusError, 30*time.Second)

	points := collectSum(t, reader, MetricAPIRequestsTotal)
	require.Len(t, points, 2)

	counts := map[string]int64{}
	for _, p := range points {
		counts[attrValue(p.Attributes, attrService)+"/"+attrValue(p.Attributes, attrMethod)+"/"+attrValue(p.Attributes, attrStatus)] = p.Value
	}
	assert.Equal(t, int64(2), counts["task/GetTasks/success"])
	assert.Equal(t, int64(1), counts["user/GetMySelf/error"])
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	m, reader := newTestMetrics(t, false)

	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 100*time.Millisecond)
	m.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)

	points := collectSum(t, reader, MetricHTTPRequestsTotal)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, "/mcp", attrValue(p.Attributes, attrPath))
		assert.Equal(t, int64(1), p.Value)
	}
}

func TestMetrics_RecordToolInvocationWithWorkspace(t *testing.T) {
	tests := []struct {
		name           string
		detailedLabels bool
		wantWorkspace  string
	}{
		{name: "workspace label dropped by default", detailedLabels: false, wantWorkspace: ""},
		{name: "workspace label kept with detailed labels", detailedLabels: true, wantWorkspace: "ws-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, reader := newTestMetrics(t, tt.detailedLabels)
			m.RecordToolInvocationWithWorkspace(context.Background(), "get_tasks", StatusSuccess, "ws-1", time.Second)

			points := collectSum(t, reader, MetricToolInvocationsTotal)
			require.Len(t, points, 1)
			assert.Equal(t, "get_tasks", attrValue(points[0].Attributes, attrTool))
			assert.Equal(t, tt.wantWorkspace, attrValue(points[0].Attributes, attrWorkspace))
		})
	}
}

func TestMetrics_RecordToolInvocation_NoWorkspace(t *testing.T) {
	m, reader := newTestMetrics(t, true)
	m.RecordToolInvocationWithWorkspace(context.Background(), "get_myself", StatusError, "", time.Millisecond)

	points := collectSum(t, reader, MetricToolInvocationsTotal)
	require.Len(t, points, 1)
	assert.Equal(t, StatusError, attrValue(points[0].Attributes, attrStatus))
	assert.Equal(t, "", attrValue(points[0].Attributes, attrWorkspace))
}

func TestMetrics_Uninitialized(t *testing.T) {
	// The disabled provider hands out a zero Metrics; recording must be a no-op.
	m := &Metrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(ctx, "GET", "/healthz", 200, time.Millisecond)
		m.RecordAPIRequest(ctx, "group", "GetWorkspaces", StatusSuccess, time.Millisecond)
		m.RecordToolInvocationWithWorkspace(ctx, "get_workspaces", StatusSuccess, "", time.Millisecond)
	})
}

func TestMetrics_FromProvider(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(ctx) }()

	metrics := provider.Metrics()
	require.NotNil(t, metrics)

	assert.NotPanics(t, func() {
		metrics.RecordAPIRequest(ctx, "task", "CreateTask", StatusSuccess, 200*time.Millisecond)
		metrics.RecordToolInvocationWithWorkspace(ctx, "create_task", StatusSuccess, "ws-1", 250*time.Millisecond)
	})
}
