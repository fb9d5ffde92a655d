// Package api implements the HTTP layer for the upstream temporary
// mailbox service. All endpoints are GET requests under a single host
// and are authenticated with two static header values.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Default client configuration values.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Config configures the API client.
type Config struct {
	// Key and Host are the two static credential headers. Either may be
	// empty; requests are still issued and simply fail upstream, which
	// the caller's fallback paths absorb.
	Key  string
	Host string

	// BaseURL overrides the URL derived from Host. Used by tests.
	BaseURL string

	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// Client is the HTTP API client. It is stateless and safe for
// concurrent use.
type Client struct {
	baseURL    string
	key        string
	host       string
	httpClient *http.Client
	retry      *RetryConfig
}

// NewClient creates an API client. Unlike most API clients it does not
// reject empty credentials: a missing key or host degrades to requests
// that fail upstream, never to a construction error.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + cfg.Host
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		retry.BaseDelay = cfg.RetryDelay
	}

	return &Client{
		baseURL:    baseURL,
		key:        cfg.Key,
		host:       cfg.Host,
		httpClient: httpClient,
		retry:      retry,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// get issues a GET request and returns the response body. Network
// errors and retryable status codes are retried with backoff; a
// non-2xx status after retries is returned as an *APIError.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("x-rapidapi-key", c.key)
		req.Header.Set("x-rapidapi-host", c.host)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &NetworkError{Err: err, URL: url, Attempt: attempt}
			if attempt < c.retry.MaxRetries {
				if werr := c.retry.Wait(ctx, attempt); werr != nil {
					return nil, werr
				}
				continue
			}
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return nil, fmt.Errorf("read response: %w", readErr)
			}
			return body, nil
		}

		apiErr := parseErrorResponse(resp.StatusCode, body, resp.Header.Get("X-Request-ID"))
		if c.retry.ShouldRetry(attempt, resp.StatusCode) {
			lastErr = apiErr
			if werr := c.retry.Wait(ctx, attempt); werr != nil {
				return nil, werr
			}
			continue
		}
		return nil, apiErr
	}
}
