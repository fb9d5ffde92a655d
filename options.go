package tempmailbox

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey  = "RAPIDAPI_KEY"
	EnvAPIHost = "RAPIDAPI_HOST"
)

// Default polling cadence for a Monitor.
const (
	// DefaultInitialDelay is how long a Monitor waits after a session
	// opens before its first poll, to catch near-immediate deliveries.
	DefaultInitialDelay = 3 * time.Second

	// DefaultPollInterval is the recurring poll interval while a
	// session is active.
	DefaultPollInterval = 30 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	key        string
	host       string
	baseURL    string
	httpClient *http.Client
	retries    int
	timeout    time.Duration
	logger     *zap.Logger
}

// monitorConfig holds configuration for a Monitor.
type monitorConfig struct {
	initialDelay time.Duration
	pollInterval time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// MonitorOption configures a Monitor.
type MonitorOption func(*monitorConfig)

// WithCredentials sets the API key and host headers.
func WithCredentials(key, host string) Option {
	return func(c *clientConfig) {
		c.key = key
		c.host = host
	}
}

// WithBaseURL overrides the API base URL derived from the host.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithRetries sets the number of retries for API calls.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithTimeout sets the HTTP timeout for API calls.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithInitialDelay sets the delay before a Monitor's first poll.
// Default: 3 seconds.
func WithInitialDelay(d time.Duration) MonitorOption {
	return func(c *monitorConfig) {
		c.initialDelay = d
	}
}

// WithPollInterval sets a Monitor's recurring poll interval.
// Default: 30 seconds.
func WithPollInterval(d time.Duration) MonitorOption {
	return func(c *monitorConfig) {
		c.pollInterval = d
	}
}
