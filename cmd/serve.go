package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tone-task/tone-mcp/internal/instrumentation"
	"github.com/tone-task/tone-mcp/internal/logging"
	"github.com/tone-task/tone-mcp/internal/resources"
	"github.com/tone-task/tone-mcp/internal/server"
	"github.com/tone-task/tone-mcp/internal/tone"
	"github.com/tone-task/tone-mcp/internal/tools/tone_tools"
)

const serverName = "tone-mcp"

func newServeCmd() *cobra.Command {
	cfg := defaultServeConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing the tone API
as tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport at /mcp, with /healthz,
    /readyz and /healthz/detailed

Read-only Mode:
  --read-only (or TONE_READ_ONLY=true) registers only the get_* tools.

Secret:
  --secret/-s takes priority over the TONE_AI_USER_SECRET env var. A .env
  file in the working directory is loaded first and never overrides
  variables that are already set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(dotEnvFile); err != nil {
				return err
			}

			cfg.Secret = secretFlag
			if err := cfg.resolve(cmd.Flags()); err != nil {
				if errors.Is(err, errMissingSecret) {
					cmd.PrintErrln(secretUsage)
				}
				return err
			}

			return runServe(cmd.Context(), cfg)
		},
	}

	cfg.bindFlags(cmd.Flags())

	return cmd
}

// bindFlags registers the serve flags on fs, defaulting to the values in c.
func (c *serveConfig) bindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.APIBaseURL, "api-base-url", c.APIBaseURL, "tone API base URL. Can also use "+envAPIBaseURL+" env var.")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Per-request timeout for tone API calls. Can also use "+envAPITimeout+" env var.")
	fs.StringVar(&c.Transport, "transport", c.Transport, "Transport type: stdio or streamable-http")
	fs.StringVar(&c.HTTPAddr, "http-addr", c.HTTPAddr, "HTTP server address (for streamable-http transport)")
	fs.BoolVar(&c.ReadOnly, "read-only", c.ReadOnly, "Register only the read tools. Can also use "+envReadOnly+" env var.")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Enable debug logging")

	// Metrics server flags
	fs.BoolVar(&c.MetricsEnabled, "metrics-enabled", c.MetricsEnabled, "Enable the metrics server on a dedicated port (streamable-http only). Can also use "+envMetricsEnabled+" env var.")
	fs.StringVar(&c.MetricsAddr, "metrics-addr", c.MetricsAddr, "Metrics server address. Can also use "+envMetricsAddr+" env var.")
}

func runServe(ctx context.Context, cfg serveConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout belongs to the stdio transport
	logger := logging.New(os.Stderr, cfg.Debug)
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.Deployment = instrumentation.Deployment{
		APIBaseURL: cfg.APIBaseURL,
		Transport:  cfg.Transport,
		ReadOnly:   cfg.ReadOnly,
	}
	if err := instrConfig.Validate(); err != nil {
		return fmt.Errorf("invalid instrumentation configuration: %w", err)
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	if cfg.Transport != transportStdio && cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err := startMetricsServer(cfg.MetricsAddr, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	client, err := tone.NewClient(tone.Config{
		BaseURL: cfg.APIBaseURL,
		Secret:  cfg.Secret,
		Timeout: cfg.Timeout,
		Logger:  logging.NewSlogAdapter(logger.With(logging.Service("tone"))),
	})
	if err != nil {
		return fmt.Errorf("failed to create tone client: %w", err)
	}

	serverContext, err := server.NewServerContext(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv := mcpserver.NewMCPServer(serverName, version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if err := tone_tools.RegisterToneTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return fmt.Errorf("failed to register tone tools: %w", err)
	}
	if err := resources.RegisterToneResources(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register tone resources: %w", err)
	}

	logger.Info("tone MCP server configured",
		"transport", cfg.Transport,
		"read_only", cfg.ReadOnly,
		"tools", len(tone_tools.ToolNames(cfg.ReadOnly)),
		"api_base_url", client.BaseURL(),
		"secret", logging.SanitizeToken(cfg.Secret))

	switch cfg.Transport {
	case transportStdio:
		return runStdioServer(ctx, mcpSrv, logger)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(ctx, mcpSrv, serverContext, cfg, provider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			cfg.Transport, transportStdio, transportStreamableHTTP)
	}
}

// startMetricsServer starts the Prometheus server and waits until its port
// is bound.
func startMetricsServer(addr string, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	select {
	case <-metricsReady:
		logger.Info("metrics server started", "addr", metricsServer.Addr())
		return metricsServer, nil
	case err := <-metricsErr:
		return nil, fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("metrics server startup timed out")
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg serveConfig, provider *instrumentation.Provider, logger *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv, logger)

	// Set up health checker for health check endpoints
	healthChecker := server.NewHealthChecker(sc)
	healthChecker.SetBuildInfo(version, cfg.ReadOnly)
	httpServer.SetHealthChecker(healthChecker)

	// Set up HTTP instrumentation for metrics
	if provider.Enabled() {
		httpServer.SetMetrics(provider.Metrics())
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
