package mailgun

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// request describes a single outbound API call. It is built fresh for each
// call and used once.
type request struct {
	operation string
	method    string
	path      string
	query     url.Values
	form      *Form
}

// pipeline executes requests through a renewable connection
type pipeline struct {
	baseURL   string
	userAgent string
	conn      *Connection
	logger    zerolog.Logger
	metrics   *metrics
	tracer    trace.Tracer
}

// endpoint joins the base URL and path segments, escaping each segment
func endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

// send executes req and decodes a 2xx JSON body into T. Transport, status
// and decode failures are all reported through the returned Result.
func send[T any](ctx context.Context, p *pipeline, req *request) Result[T] {
	ctx, span := p.tracer.Start(ctx, "mailgun."+req.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("http.method", req.method),
		attribute.String("mailgun.path", req.path),
	)

	start := time.Now()
	result, outcome := do[T](ctx, p, req)
	elapsed := time.Since(start)

	p.metrics.observe(req.operation, outcome, elapsed)

	if code := result.StatusCode(); code != 0 {
		span.SetAttributes(attribute.Int("http.status_code", code))
	}
	if result.Successful {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.ErrorMessage())
	}

	var event *zerolog.Event
	if result.Successful {
		event = p.logger.Debug()
	} else {
		event = p.logger.Warn().Str("error", result.ErrorMessage())
	}
	event.
		Str("operation", req.operation).
		Str("method", req.method).
		Str("path", req.path).
		Str("outcome", outcome).
		Dur("duration", elapsed).
		Msg("Mailgun API request")

	return result
}

func do[T any](ctx context.Context, p *pipeline, req *request) (Result[T], string) {
	target := p.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if req.form != nil {
		data, ct, err := req.form.Encode()
		if err != nil {
			return Fail[T](err.Error()), "encode_error"
		}
		body = bytes.NewReader(data)
		contentType = ct
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return Fail[T](err.Error()), "transport_error"
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		httpReq.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.conn.Acquire().Do(httpReq)
	if err != nil {
		return Fail[T](err.Error()), "transport_error"
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return FailStatus[T](resp.StatusCode), "http_error"
	}

	var decoded T
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Fail[T](err.Error()), "decode_error"
	}

	return Success(decoded), "success"
}
