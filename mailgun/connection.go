package mailgun

import (
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// APIUser is the fixed basic-auth user name of the Mailgun API
	APIUser = "api"

	// DefaultConnectionTTL bounds how long a pooled transport is reused
	DefaultConnectionTTL = 60 * time.Minute
)

// Handle is a live HTTP client tagged with the connection's Authorization header
type Handle struct {
	client        *http.Client
	authorization string
}

// Client returns the underlying HTTP client
func (h *Handle) Client() *http.Client {
	return h.client
}

// Authorization returns the Authorization header value sent with each request
func (h *Handle) Authorization() string {
	return h.authorization
}

// Do sends req with the Authorization header attached
func (h *Handle) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", h.authorization)
	return h.client.Do(req)
}

// ConnectionOption configures a Connection
type ConnectionOption func(*Connection)

// WithTTL sets how long a transport is reused before it is replaced
func WithTTL(ttl time.Duration) ConnectionOption {
	return func(c *Connection) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRequestTimeout sets the timeout of every HTTP client the connection creates
func WithRequestTimeout(timeout time.Duration) ConnectionOption {
	return func(c *Connection) {
		c.timeout = timeout
	}
}

// WithTransportFactory sets how a fresh round tripper is created on renewal
func WithTransportFactory(factory func() http.RoundTripper) ConnectionOption {
	return func(c *Connection) {
		if factory != nil {
			c.newTransport = factory
		}
	}
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) ConnectionOption {
	return func(c *Connection) {
		if now != nil {
			c.now = now
		}
	}
}

// WithConnectionLogger sets the logger used for renewal events
func WithConnectionLogger(logger zerolog.Logger) ConnectionOption {
	return func(c *Connection) {
		c.logger = logger
	}
}

// Connection owns a pooled HTTP client and recycles it once its TTL elapses,
// so long-lived pools do not keep pinning stale DNS answers. The
// Authorization header is fixed for the connection's whole lifetime.
type Connection struct {
	authorization string
	ttl           time.Duration
	timeout       time.Duration
	newTransport  func() http.RoundTripper
	now           func() time.Time
	logger        zerolog.Logger
	onRenew       func()

	mu      sync.RWMutex
	handle  *Handle
	expires time.Time
}

// NewConnection creates a connection authenticating as user with password.
// No transport is created until the first Acquire.
func NewConnection(user, password string, opts ...ConnectionOption) *Connection {
	c := &Connection{
		authorization: basicAuth(user, password),
		ttl:           DefaultConnectionTTL,
		timeout:       30 * time.Second,
		newTransport:  defaultTransport,
		now:           time.Now,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Authorization returns the fixed Authorization header value
func (c *Connection) Authorization() string {
	return c.authorization
}

// Acquire returns the live handle, creating or renewing it when needed.
// Concurrent callers on the fast path only share a read lock; a single
// caller performs each renewal.
func (c *Connection) Acquire() *Handle {
	c.mu.RLock()
	if c.handle != nil && !c.now().After(c.expires) {
		h := c.handle
		c.mu.RUnlock()
		return h
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have renewed while we waited for the write lock
	now := c.now()
	if c.handle != nil && !now.After(c.expires) {
		return c.handle
	}

	old := c.handle
	c.handle = &Handle{
		client: &http.Client{
			Transport: c.newTransport(),
			Timeout:   c.timeout,
		},
		authorization: c.authorization,
	}
	c.expires = now.Add(c.ttl)

	if old != nil {
		// Only idle connections are closed; in-flight requests on the old
		// client finish normally.
		old.client.CloseIdleConnections()
		c.logger.Debug().Time("expires", c.expires).Msg("Renewed Mailgun connection")
		if c.onRenew != nil {
			c.onRenew()
		}
	} else {
		c.logger.Debug().Time("expires", c.expires).Msg("Opened Mailgun connection")
	}

	return c.handle
}

// Expires returns the expiry of the live handle, zero before the first Acquire
func (c *Connection) Expires() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expires
}

// Close releases idle connections held by the live handle
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle != nil {
		c.handle.client.CloseIdleConnections()
	}
}

// setRenewHook installs f unless a hook is already set
func (c *Connection) setRenewHook(f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onRenew == nil {
		c.onRenew = f
	}
}

func basicAuth(user, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+password))
}

func defaultTransport() http.RoundTripper {
	return http.DefaultTransport.(*http.Transport).Clone()
}
