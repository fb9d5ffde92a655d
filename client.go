package tempmailbox

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tempmailbox/client-go/internal/api"
)

// DefaultDomains is the fixed fallback list used when the domain
// catalog cannot be fetched.
var DefaultDomains = []string{
	"1secmail.com",
	"1secmail.org",
	"1secmail.net",
	"guerrillamail.com",
	"tempmail.org",
}

// fallbackDomain hosts the deterministic fallback address when
// provisioning cannot reach the catalog at all.
const fallbackDomain = "1secmail.com"

const localPartLength = 10

const localPartCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Client talks to the upstream mailbox service. It is stateless and
// safe for concurrent use; session lifecycle lives in Monitor.
type Client struct {
	api    *api.Client
	logger *zap.Logger
	now    func() time.Time
}

// New creates a client. Missing credentials are not an error: requests
// carry empty headers and fail upstream, which the provisioning
// fallbacks absorb.
func New(opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		api: api.NewClient(api.Config{
			Key:        cfg.key,
			Host:       cfg.host,
			BaseURL:    cfg.baseURL,
			HTTPClient: cfg.httpClient,
			MaxRetries: cfg.retries,
			Timeout:    cfg.timeout,
		}),
		logger: logger,
		now:    time.Now,
	}
}

// FromEnv creates a client with credentials read from the RAPIDAPI_KEY
// and RAPIDAPI_HOST environment variables. Additional options are
// applied after the credentials, so WithCredentials can still override.
func FromEnv(opts ...Option) *Client {
	all := append([]Option{
		WithCredentials(os.Getenv(EnvAPIKey), os.Getenv(EnvAPIHost)),
	}, opts...)
	return New(all...)
}

// Domains returns the mailbox domains the service currently offers.
// Errors are explicit here; DomainsOrDefault applies the fallback.
func (c *Client) Domains(ctx context.Context) ([]string, error) {
	domains, err := c.api.GetDomains(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return domains, nil
}

// DomainsOrDefault returns the live domain catalog, or DefaultDomains
// when the catalog is unreachable or empty. It never fails.
func (c *Client) DomainsOrDefault(ctx context.Context) []string {
	domains, err := c.Domains(ctx)
	if err != nil || len(domains) == 0 {
		c.logger.Debug("domain catalog unavailable, using fallback list", zap.Error(err))
		return DefaultDomains
	}
	return domains
}

// CreateMailbox provisions a new mailbox session: a random local part
// at a random catalog domain, with the access token derived from the
// address. It never fails; if the catalog is unreachable it falls back
// to a deterministic user<epoch-millis> address.
func (c *Client) CreateMailbox(ctx context.Context) *MailboxSession {
	domains, err := c.Domains(ctx)
	if err != nil || len(domains) == 0 {
		session := c.fallbackSession()
		c.logger.Warn("mailbox provisioning fell back to deterministic address",
			zap.String("address", session.Address()),
			zap.Error(err),
		)
		return session
	}

	domain := strings.TrimPrefix(domains[rand.Intn(len(domains))], "@")
	address := randomLocalPart(localPartLength) + "@" + domain

	session := NewSession(address)
	c.logger.Debug("mailbox provisioned", zap.String("address", address))
	return session
}

// CreateMailboxWithName provisions a mailbox with a requested local
// part at the first catalog domain. The name is folded to lowercase
// alphanumerics and must be at least 3 characters after cleaning;
// otherwise, or on any catalog error, it falls back to CreateMailbox.
func (c *Client) CreateMailboxWithName(ctx context.Context, username string) *MailboxSession {
	clean := cleanLocalPart(username)
	if len(clean) < 3 {
		c.logger.Debug("requested username too short after cleaning, using random mailbox",
			zap.String("username", username))
		return c.CreateMailbox(ctx)
	}

	domains, err := c.Domains(ctx)
	if err != nil || len(domains) == 0 {
		return c.CreateMailbox(ctx)
	}

	domain := strings.TrimPrefix(domains[0], "@")
	return NewSession(clean + "@" + domain)
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func (c *Client) fallbackSession() *MailboxSession {
	address := fmt.Sprintf("user%d@%s", c.now().UnixMilli(), fallbackDomain)
	return NewSession(address)
}

func randomLocalPart(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = localPartCharset[rand.Intn(len(localPartCharset))]
	}
	return string(b)
}

func cleanLocalPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
