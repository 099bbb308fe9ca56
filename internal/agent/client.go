// Package agent implements the typed HTTP client for the external market
// intelligence agent service. The agent performs the actual scraping,
// AI analysis and report generation; this client only relays requests,
// decorates them with server-held credentials, and parses responses into
// typed DTOs with defaults applied at the boundary.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/marketlens/marketlens/internal/common"
)

// maxErrorBody caps how much of an upstream error body is carried in errors
const maxErrorBody = 512

// Client is an HTTP client for the upstream agent service. Methods are
// grouped by timeout class: status-style calls use a short timeout, agent
// sync calls a medium one, and long-running trigger calls none at all.
type Client struct {
	baseURL      string
	serviceToken string

	statusClient   *http.Client // health/status probes (5s)
	syncClient     *http.Client // agent sync + general API calls (15s)
	triggerClient  *http.Client // long-running trigger calls (unbounded)
	downloadClient *http.Client // report/file downloads (60s)

	limiter *rate.Limiter
	logger  arbor.ILogger
}

// New creates a new upstream agent client from configuration
func New(cfg *common.UpstreamConfig, logger arbor.ILogger) *Client {
	c := &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceToken: cfg.ServiceToken,
		statusClient: &http.Client{
			Timeout: common.ParseDurationOr(cfg.StatusTimeout, 5*time.Second),
		},
		syncClient: &http.Client{
			Timeout: common.ParseDurationOr(cfg.SyncTimeout, 15*time.Second),
		},
		// Trigger calls kick off scraping and analysis runs upstream;
		// no client-side bound is applied, callers cancel via context.
		triggerClient: &http.Client{},
		downloadClient: &http.Client{
			Timeout: common.ParseDurationOr(cfg.DownloadTimeout, 60*time.Second),
		},
		logger: logger,
	}

	if cfg.RateLimit != "" {
		if spacing, err := time.ParseDuration(cfg.RateLimit); err == nil && spacing > 0 {
			c.limiter = rate.NewLimiter(rate.Every(spacing), 1)
		} else if err != nil {
			logger.Warn().Str("rate_limit", cfg.RateLimit).Msg("Invalid upstream rate limit, rate limiting disabled")
		}
	}

	return c
}

// BaseURL returns the configured upstream base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the upstream's standard success wrapper
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// newRequest builds an upstream request with credentials attached
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	return req, nil
}

// do executes a request, treating any non-2xx upstream status as a failure
// rather than passing it through blindly. The response body is decoded into
// out when out is non-nil.
func (c *Client) do(client *http.Client, req *http.Request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Upstream call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("upstream returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}

	return nil
}

// doJSON is the common path: build request, execute, decode
func (c *Client) doJSON(ctx context.Context, client *http.Client, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.do(client, req, out)
}

// doEnvelope executes a request whose response uses the upstream's standard
// {success, data, message} wrapper and decodes data into out.
func (c *Client) doEnvelope(ctx context.Context, client *http.Client, method, path string, body, out interface{}) error {
	var env envelope
	if err := c.doJSON(ctx, client, method, path, body, &env); err != nil {
		return err
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "upstream reported failure"
		}
		return fmt.Errorf("upstream error: %s", msg)
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode upstream data payload: %w", err)
	}

	return nil
}
