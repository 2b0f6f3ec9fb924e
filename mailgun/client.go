package mailgun

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/s0up4200/mgctl/mailgun"

// Client represents a Mailgun API client bound to one sending domain
type Client struct {
	domain   string
	conn     *Connection
	pipeline *pipeline
	logger   zerolog.Logger
	lists    *ListManager
	routes   *RouteManager
}

// NewClient creates a new Mailgun client for domain
func NewClient(domain, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if err := requireArgs("domain", domain, "apiKey", apiKey); err != nil {
		return nil, err
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	p, err := newPipeline(apiKey, logger, options)
	if err != nil {
		return nil, err
	}

	c := &Client{
		domain:   domain,
		conn:     p.conn,
		pipeline: p,
		logger:   logger,
	}
	c.lists = &ListManager{domain: domain, pipeline: p, concurrency: options.batchConcurrency}
	c.routes = &RouteManager{pipeline: p}

	return c, nil
}

func newPipeline(apiKey string, logger zerolog.Logger, options clientOptions) (*pipeline, error) {
	baseURL := strings.TrimRight(options.baseURL, "/")
	if baseURL == "" {
		return nil, &ArgumentError{Argument: "baseURL", Reason: "must not be empty"}
	}

	conn := options.connection
	if conn == nil {
		connOpts := []ConnectionOption{
			WithTTL(options.connectionTTL),
			WithRequestTimeout(options.timeout),
			WithConnectionLogger(logger),
		}
		if options.transport != nil {
			connOpts = append(connOpts, WithTransportFactory(options.transport))
		}
		conn = NewConnection(APIUser, apiKey, connOpts...)
	}

	p := &pipeline{
		baseURL:   baseURL,
		userAgent: options.userAgent,
		conn:      conn,
		logger:    logger,
	}

	if options.registerer != nil {
		m, err := newMetrics(options.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		p.metrics = m
		conn.setRenewHook(m.renewed)
	}

	tp := options.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	p.tracer = tp.Tracer(tracerName)

	return p, nil
}

// Domain returns the sending domain the client works on
func (c *Client) Domain() string {
	return c.domain
}

// Connection returns the renewable connection requests are sent through
func (c *Client) Connection() *Connection {
	return c.conn
}

// Lists returns the mailing list manager
func (c *Client) Lists() *ListManager {
	return c.lists
}

// Routes returns the route manager
func (c *Client) Routes() *RouteManager {
	return c.routes
}

// Close releases idle connections
func (c *Client) Close() {
	c.conn.Close()
}
