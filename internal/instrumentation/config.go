package instrumentation

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds the telemetry settings of one tone-mcp process.
type Config struct {
	// ServiceName is reported as service.name (default: tone-mcp)
	ServiceName string

	// ServiceVersion is the build version
	ServiceVersion string

	// ServiceInstanceID defaults to the hostname
	ServiceInstanceID string

	// Deployment describes the tone API and MCP surface this process serves.
	// It is attached to every metric and span as resource attributes.
	Deployment Deployment

	// Enabled turns metrics and tracing on (INSTRUMENTATION_ENABLED, default true)
	Enabled bool

	// MetricsExporter is "prometheus" (default), "otlp" or "stdout"
	MetricsExporter string

	// TracingExporter is "none" (default), "otlp" or "stdout"
	TracingExporter string

	// OTLPEndpoint is the collector address without scheme, e.g. "localhost:4318"
	OTLPEndpoint string

	// OTLPInsecure sends OTLP over plain HTTP. Traces carry workspace IDs,
	// so this is for local collectors only.
	OTLPInsecure bool

	// TraceSamplingRate is the parent-based ratio, 0.0 to 1.0 (default 0.1)
	TraceSamplingRate float64

	// DetailedLabels adds the workspace ID to tool metrics.
	DetailedLabels bool

	// DebugWriter receives the output of the "stdout" exporters. Nil means
	// os.Stderr; stdout itself carries the MCP stdio transport.
	DebugWriter io.Writer

	// AuditLogging configures audit logging behavior.
	AuditLogging AuditLoggingConfig
}

// Deployment identifies what a tone-mcp process is connected to.
type Deployment struct {
	// APIBaseURL is the tone API the client posts to
	APIBaseURL string

	// Transport is the MCP transport, "stdio" or "streamable-http"
	Transport string

	// ReadOnly reports whether the write tools are registered
	ReadOnly bool
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludePII controls whether identifying arguments (workspace and task IDs)
	// are included in audit logs. When false (default), only the tool name,
	// remote service and outcome are logged.
	IncludePII bool

	// LogLevel is the level of successful invocations: "debug", "info"
	// (default), "warn" or "error". Failures are logged at warn or above.
	LogLevel string
}

// DefaultConfig reads the telemetry settings from the environment.
// Deployment and ServiceVersion are left for the caller.
func DefaultConfig() Config {
	return Config{
		ServiceName:       getEnvOrDefault("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion:    "unknown",
		ServiceInstanceID: getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:           getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:   strings.ToLower(getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus)),
		TracingExporter:   strings.ToLower(getEnvOrDefault("TRACING_EXPORTER", ExporterNone)),
		OTLPEndpoint:      getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:      getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate: getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		DetailedLabels:    getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled:    getEnvBoolOrDefault("AUDIT_LOGGING_ENABLED", true),
			IncludePII: getEnvBoolOrDefault("AUDIT_LOGGING_INCLUDE_PII", false),
			LogLevel:   getEnvOrDefault("AUDIT_LOGGING_LEVEL", "info"),
		},
	}
}

// Validate checks exporter names, the sampling ratio and the OTLP endpoint.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterNone, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if c.OTLPEndpoint == "" && (c.TracingExporter == ExporterOTLP || c.MetricsExporter == ExporterOTLP) {
		return fmt.Errorf("OTLP endpoint is required when using an OTLP exporter; set OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	return nil
}

func (c *Config) debugWriter() io.Writer {
	if c.DebugWriter != nil {
		return c.DebugWriter
	}
	return os.Stderr
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault ignores values strconv.ParseBool rejects.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset
	DefaultServiceName = "tone-mcp"

	// Exporter types
	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
