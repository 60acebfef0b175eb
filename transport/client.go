package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL   = "http://localhost:8080/api"
	DefaultTimeout   = 10 * time.Second
	DefaultLoginPath = "/login"

	tracerName = "github.com/viant/authsession/transport"
)

// Client issues requests through the outbound RoundTripper and applies the
// inbound stage to every response.
type Client struct {
	rawBaseURL     string
	baseURL        *url.URL
	timeout        time.Duration
	loginPath      string
	tokens         TokenStore
	redirector     Redirector
	inner          http.RoundTripper
	httpClient     *http.Client
	logger         *slog.Logger
	registerer     prometheus.Registerer
	metrics        *metrics
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
}

// New creates a Client reading and revoking the token through tokens.
func New(tokens TokenStore, options ...Option) (*Client, error) {
	ret := &Client{
		rawBaseURL: DefaultBaseURL,
		timeout:    DefaultTimeout,
		loginPath:  DefaultLoginPath,
		tokens:     tokens,
		redirector: nopRedirector{},
		logger:     slog.Default(),
	}
	for _, opt := range options {
		opt(ret)
	}
	baseURL, err := url.Parse(ret.rawBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", ret.rawBaseURL, err)
	}
	if !baseURL.IsAbs() {
		return nil, fmt.Errorf("invalid base URL %q: must be absolute", ret.rawBaseURL)
	}
	ret.baseURL = baseURL
	ret.httpClient = &http.Client{
		Transport: NewRoundTripper(tokens, ret.inner, baseURL.Host),
		Timeout:   ret.timeout,
	}
	ret.metrics = newMetrics(ret.registerer)
	if ret.tracerProvider == nil {
		ret.tracerProvider = otel.GetTracerProvider()
	}
	ret.tracer = ret.tracerProvider.Tracer(tracerName)
	return ret, nil
}

// NewRequest builds a request for path relative to the base URL, JSON
// encoding body when it is not nil.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	URL, err := c.resolve(path)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &RequestError{Err: fmt.Errorf("marshal body: %w", err)}
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, reader)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.send(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.send(ctx, http.MethodDelete, path, nil)
}

// DoJSON sends in as JSON and decodes the response payload into out.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	data, err := c.send(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Do sends req and returns the response body of a 2xx response.
func (c *Client) Do(req *http.Request) ([]byte, error) {
	if req == nil || req.URL == nil {
		return nil, &RequestError{Err: errMalformedRequest}
	}
	ctx, span := c.tracer.Start(req.Context(), "authsession.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		))
	defer span.End()
	started := time.Now()
	method, URL := req.Method, req.URL.String()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, c.networkFailure(span, started, method, URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkFailure(span, started, method, URL, fmt.Errorf("read body: %w", err))
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.metrics.observe(outcomeSuccess, started)
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		c.metrics.observe(outcomeUnauthorized, started)
		span.SetStatus(codes.Error, "unauthorized")
		c.expire(ctx, method, URL)
		return nil, &UnauthorizedError{Method: method, URL: URL, Body: body}
	default:
		c.metrics.observe(outcomeHTTPError, started)
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		c.logger.Error("request failed", "method", method, "url", URL, "status", resp.StatusCode)
		return nil, &HTTPError{Method: method, URL: URL, Status: resp.StatusCode, Header: resp.Header, Body: body}
	}
}

func (c *Client) networkFailure(span trace.Span, started time.Time, method, URL string, err error) error {
	if reqErr, ok := asRequestError(err); ok {
		span.SetStatus(codes.Error, reqErr.Error())
		return reqErr
	}
	c.metrics.observe(outcomeNetwork, started)
	span.RecordError(err)
	span.SetStatus(codes.Error, "network error")
	netErr := &NetworkError{Method: method, URL: URL, Err: err}
	c.logger.Error("request failed", "method", method, "url", URL, "timeout", netErr.Timeout(), "error", err)
	return netErr
}

// expire tears the session down after a 401. Both steps are idempotent so a
// late 401 from a request issued before logout is harmless. A late 401 from a
// request issued before a re-login removes the new token as well; the
// response carries no way to tell which token it rejected.
func (c *Client) expire(ctx context.Context, method, URL string) {
	if c.tokens != nil {
		c.tokens.RemoveToken()
	}
	c.metrics.expired.Inc()
	c.logger.Warn("session expired", "method", method, "url", URL, "location", c.loginPath)
	c.redirector.Redirect(ctx, c.loginPath)
}

func (c *Client) resolve(rawPath string) (string, error) {
	ref, err := url.Parse(rawPath)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", rawPath, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	ret := *c.baseURL
	ret.Path = path.Join("/", c.baseURL.Path, ref.Path)
	if strings.HasSuffix(ref.Path, "/") && !strings.HasSuffix(ret.Path, "/") {
		ret.Path += "/"
	}
	ret.RawPath = ""
	ret.RawQuery = ref.RawQuery
	ret.Fragment = ""
	return ret.String(), nil
}
