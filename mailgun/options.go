package mailgun

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBaseURL is the public Mailgun API endpoint
const DefaultBaseURL = "https://api.mailgun.net/v3"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL          string
	timeout          time.Duration
	connectionTTL    time.Duration
	connection       *Connection
	transport        func() http.RoundTripper
	userAgent        string
	registerer       prometheus.Registerer
	tracerProvider   trace.TracerProvider
	batchConcurrency int
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:          DefaultBaseURL,
		timeout:          30 * time.Second,
		connectionTTL:    DefaultConnectionTTL,
		userAgent:        "mgctl",
		batchConcurrency: 5,
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithConnectionTTL sets how long a pooled transport lives before renewal.
func WithConnectionTTL(ttl time.Duration) Option {
	return func(o *clientOptions) {
		if ttl > 0 {
			o.connectionTTL = ttl
		}
	}
}

// WithConnection injects an existing connection, letting several clients
// share one pool. Timeout, TTL and transport options are then ignored.
func WithConnection(conn *Connection) Option {
	return func(o *clientOptions) {
		o.connection = conn
	}
}

// WithTransport sets the factory used to build a transport on each renewal.
func WithTransport(factory func() http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = factory
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithMetrics registers request metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registerer = reg
	}
}

// WithTracerProvider sets the provider request spans are created from.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) {
		o.tracerProvider = tp
	}
}

// WithBatchConcurrency bounds the number of parallel requests in batch calls.
func WithBatchConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.batchConcurrency = n
		}
	}
}
