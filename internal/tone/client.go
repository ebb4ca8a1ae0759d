package tone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/tone-task/tone-mcp/internal/instrumentation"
	"github.com/tone-task/tone-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the production tone API endpoint.
	DefaultBaseURL = "https://api.tone-task.app"

	// DefaultTimeout bounds every request, including reading the response body.
	DefaultTimeout = 30 * time.Second
)

// Config configures a Client
type Config struct {
	// BaseURL is the API root without trailing slash (default: DefaultBaseURL)
	BaseURL string

	// Secret is the user's bearer secret. Required.
	Secret string

	// Timeout is the per-request timeout (default: DefaultTimeout)
	Timeout time.Duration

	// Transport is the underlying round tripper (default: http.DefaultTransport).
	// The bearer header and tracing are layered on top of it.
	Transport http.RoundTripper

	// Logger receives debug logs for each request (default: slog.Default())
	Logger logging.Logger
}

// APIRecorder records per-request metrics for remote API calls.
// *instrumentation.Metrics satisfies it.
type APIRecorder interface {
	RecordAPIRequest(ctx context.Context, service, method, status string, duration time.Duration)
}

// Client issues authenticated POST requests against the tone API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger

	mu      sync.RWMutex
	metrics APIRecorder
}

// NewClient creates a new tone API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("tone secret cannot be empty")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Transport == nil {
		cfg.Transport = http.DefaultTransport
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.DefaultLogger()
	}

	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Secret,
			TokenType:   "Bearer",
		}),
		Base: otelhttp.NewTransport(cfg.Transport),
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: cfg.Logger,
	}

	c.logger.Debug("tone client configured",
		"base_url", c.baseURL,
		"secret", logging.SanitizeToken(cfg.Secret),
		logging.Duration(cfg.Timeout))

	return c, nil
}

// BaseURL returns the API root this client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetMetrics sets the recorder used for per-request metrics.
func (c *Client) SetMetrics(m APIRecorder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metrics = m
}

func (c *Client) recorder() APIRecorder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}

// Query posts params to method and decodes a 2xx JSON response into out.
// Any failure is returned as a *QueryError.
func (c *Client) Query(ctx context.Context, method Method, params map[string]any, out any) error {
	body, err := encodeParams(params)
	if err != nil {
		return &QueryError{Method: method, Body: string(body), Err: err}
	}

	ctx, span := instrumentation.StartAPISpan(ctx, method.Service(), method.Name())
	defer span.End()
	start := time.Now()

	err = c.query(ctx, method, body, out)
	c.observe(ctx, method, start, err)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return &QueryError{Method: method, Body: string(body), Err: err}
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}

func (c *Client) query(ctx context.Context, method Method, body []byte, out any) error {
	resp, err := c.post(ctx, method, body)
	if err != nil {
		return err
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Mutate posts params to method and reports Success only for status 200.
// The response body is discarded.
func (c *Client) Mutate(ctx context.Context, method Method, params map[string]any) Outcome {
	body, err := encodeParams(params)
	if err != nil {
		c.logger.Warn("failed to encode request", logging.Method(method.String()), logging.Err(err))
		return Failed
	}

	ctx, span := instrumentation.StartAPISpan(ctx, method.Service(), method.Name())
	defer span.End()
	start := time.Now()

	resp, err := c.post(ctx, method, body)
	if err == nil {
		defer closeBody(resp)
		if resp.StatusCode != http.StatusOK {
			err = &StatusError{Code: resp.StatusCode}
		}
	}

	c.observe(ctx, method, start, err)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return Failed
	}
	instrumentation.SetSpanSuccess(span)
	return Success
}

func (c *Client) post(ctx context.Context, method Method, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// observe logs the request and records metrics if a recorder is set.
func (c *Client) observe(ctx context.Context, method Method, start time.Time, err error) {
	duration := time.Since(start)

	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}

	if m := c.recorder(); m != nil {
		m.RecordAPIRequest(ctx, method.Service(), method.Name(), status, duration)
	}

	c.logger.Debug("tone request completed",
		logging.Method(method.String()),
		logging.Status(status),
		logging.Duration(duration),
		logging.TraceID(instrumentation.GetTraceID(ctx)),
		logging.Err(err))
}

func encodeParams(params map[string]any) ([]byte, error) {
	if params == nil {
		params = map[string]any{}
	}
	return json.Marshal(params)
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
