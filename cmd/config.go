package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/tone-task/tone-mcp/internal/server"
	"github.com/tone-task/tone-mcp/internal/tone"
)

// Environment variables consulted when the matching flag is not set.
const (
	envSecret         = "TONE_AI_USER_SECRET"
	envAPIBaseURL     = "TONE_API_BASE_URL"
	envAPITimeout     = "TONE_API_TIMEOUT"
	envReadOnly       = "TONE_READ_ONLY"
	envMetricsEnabled = "METRICS_ENABLED"
	envMetricsAddr    = "METRICS_ADDR"
)

// Transport types accepted by --transport.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

const dotEnvFile = ".env"

const secretUsage = `Usage: tone-mcp --secret <your-secret>
   or: tone-mcp -s <your-secret>
   or: TONE_AI_USER_SECRET=<your-secret> tone-mcp`

var errMissingSecret = errors.New("tone secret is required: pass --secret or set " + envSecret)

// serveConfig is the resolved configuration of the serve command.
type serveConfig struct {
	Secret     string
	APIBaseURL string
	Timeout    time.Duration

	Transport string
	HTTPAddr  string
	ReadOnly  bool
	Debug     bool

	MetricsEnabled bool
	MetricsAddr    string
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		APIBaseURL:     tone.DefaultBaseURL,
		Timeout:        tone.DefaultTimeout,
		Transport:      transportStdio,
		HTTPAddr:       server.DefaultHTTPAddr,
		MetricsEnabled: true,
		MetricsAddr:    ":9090",
	}
}

// loadDotEnv loads path into the environment. Variables that are already
// set keep their values and a missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// resolve fills every setting whose flag was not given on the command line
// from its environment variable, then validates the result.
func (c *serveConfig) resolve(flags *pflag.FlagSet) error {
	if c.Secret == "" {
		c.Secret = os.Getenv(envSecret)
	}

	if !flags.Changed("api-base-url") {
		if v := os.Getenv(envAPIBaseURL); v != "" {
			c.APIBaseURL = v
		}
	}

	if !flags.Changed("timeout") {
		if v := os.Getenv(envAPITimeout); v != "" {
			d, err := parseTimeout(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", envAPITimeout, err)
			}
			c.Timeout = d
		}
	}

	if !flags.Changed("read-only") {
		if err := envBool(envReadOnly, &c.ReadOnly); err != nil {
			return err
		}
	}

	if !flags.Changed("metrics-enabled") {
		if err := envBool(envMetricsEnabled, &c.MetricsEnabled); err != nil {
			return err
		}
	}

	if !flags.Changed("metrics-addr") {
		if v := os.Getenv(envMetricsAddr); v != "" {
			c.MetricsAddr = v
		}
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	switch c.Transport {
	case transportStdio, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			c.Transport, transportStdio, transportStreamableHTTP)
	}

	if c.Secret == "" {
		return errMissingSecret
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or a bare number of seconds.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}
