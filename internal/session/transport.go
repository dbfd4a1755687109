// ABOUTME: Authenticated HTTP transport for the claude.ai web API
// ABOUTME: Signs every request with the sessionKey cookie and browser headers

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultBaseURL is the origin every API path is resolved against.
	DefaultBaseURL = "https://claude.ai"

	// DefaultUserAgent mimics a desktop Firefox. Prefer the user agent of the
	// browser the session key was copied from.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/115.0"

	tokenPrefix         = "sk-ant-"
	instrumentationName = "github.com/2389/claude-web/internal/session"
)

// DefaultHeaders are sent with every request. The web API rejects requests
// that do not look like they came from the browser app.
func DefaultHeaders() http.Header {
	h := make(http.Header)
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("DNT", "1")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Connection", "keep-alive")
	return h
}

// Transport issues requests on behalf of one session key. It is immutable
// after New and safe to share between callers.
type Transport struct {
	baseURL   string
	userAgent string
	headers   http.Header
	client    *http.Client
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option configures a Transport.
type Option func(*Transport)

// WithBaseURL points the transport at another origin (tests, proxies).
func WithBaseURL(u string) Option {
	return func(t *Transport) {
		t.baseURL = strings.TrimSuffix(u, "/")
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(t *Transport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client. A client Timeout also bounds
// how long a reply stream may take.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithHeaders replaces DefaultHeaders. Cookie and User-Agent are always set
// by the transport itself.
func WithHeaders(h http.Header) Option {
	return func(t *Transport) {
		t.headers = h.Clone()
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithTracerProvider sets where request spans go. The global provider is used
// otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Transport) {
		if tp != nil {
			t.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// New builds a Transport for the given session key.
func New(token string, opts ...Option) (*Transport, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}

	t := &Transport{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		headers:   DefaultHeaders(),
		client:    &http.Client{},
		logger:    slog.Default(),
		tracer:    otel.GetTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.baseURL == "" {
		return nil, &ConfigError{Field: "base_url", Reason: "must not be empty"}
	}

	// Fixed for the transport's lifetime
	t.headers.Set("Cookie", "sessionKey="+token)
	t.headers.Set("User-Agent", t.userAgent)

	return t, nil
}

func validateToken(token string) error {
	if token == "" {
		return &ConfigError{Field: "token", Reason: "is required"}
	}
	if strings.ContainsAny(token, " \t\r\n;,") {
		return &ConfigError{Field: "token", Reason: "contains characters not allowed in a cookie"}
	}
	if !strings.HasPrefix(token, tokenPrefix) {
		return &ConfigError{Field: "token", Reason: fmt.Sprintf("must start with %q", tokenPrefix)}
	}
	return nil
}

// BaseURL returns the origin requests are sent to.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Do sends one request and returns the response body. Non-2xx responses are
// returned as *RequestError.
func (t *Transport) Do(ctx context.Context, method, path string, body any) ([]byte, error) {
	ctx, span := t.startSpan(ctx, method, path)
	defer span.End()

	resp, err := t.send(ctx, method, path, body, "")
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("reading response: %w", err)
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
		recordError(span, reqErr)
		return nil, reqErr
	}

	return data, nil
}

// Stream sends one request expecting a text/event-stream reply and returns a
// reader over its events. The caller must Close the stream. The request span
// stays open while events are read and ends on Close; stream errors are
// recorded on it.
func (t *Transport) Stream(ctx context.Context, method, path string, body any) (*EventStream, error) {
	ctx, span := t.startSpan(ctx, method, path)

	resp, err := t.send(ctx, method, path, body, "text/event-stream")
	if err != nil {
		recordError(span, err)
		span.End()
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		reqErr := &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: data}
		recordError(span, reqErr)
		span.End()
		return nil, reqErr
	}

	stream := NewEventStream(resp.Body)
	stream.span = span
	return stream, nil
}

func (t *Transport) send(ctx context.Context, method, path string, body any, accept string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header = t.headers.Clone()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	t.logger.Debug("sending request", "method", method, "path", path)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	t.logger.Debug("received response", "method", method, "path", path, "status", resp.StatusCode)
	return resp, nil
}

func (t *Transport) startSpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "session."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
