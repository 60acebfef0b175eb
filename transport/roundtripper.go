package transport

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// RequestIDHeader carries the per request correlation id.
const RequestIDHeader = "X-Request-ID"

var errMalformedRequest = errors.New("malformed request: missing request or URL")

// TokenSource exposes the persisted bearer token.
type TokenSource interface {
	Token() (string, bool)
}

// TokenStore is a TokenSource that can also drop the token.
type TokenStore interface {
	TokenSource
	RemoveToken()
}

// RoundTripper injects the current bearer token into outgoing requests.
type RoundTripper struct {
	tokens    TokenSource
	transport http.RoundTripper
	hosts     map[string]bool
}

// NewRoundTripper wraps inner; a nil inner uses http.DefaultTransport.
// When hosts are given the token is only sent to those host[:port] values,
// so redirects and absolute URLs to other origins never see it.
func NewRoundTripper(tokens TokenSource, inner http.RoundTripper, hosts ...string) *RoundTripper {
	if inner == nil {
		inner = http.DefaultTransport
	}
	ret := &RoundTripper{tokens: tokens, transport: inner}
	if len(hosts) > 0 {
		ret.hosts = make(map[string]bool, len(hosts))
		for _, host := range hosts {
			ret.hosts[strings.ToLower(host)] = true
		}
	}
	return ret
}

func (r *RoundTripper) trusted(host string) bool {
	return r.hosts == nil || r.hosts[strings.ToLower(host)]
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil || req.URL == nil {
		return nil, &RequestError{Err: errMalformedRequest}
	}
	ctx := req.Context()
	// the caller's request must not be mutated
	outbound := req.Clone(ctx)
	if outbound.Header == nil {
		outbound.Header = http.Header{}
	}
	if !skipAuth(ctx) && r.tokens != nil && r.trusted(outbound.URL.Host) {
		if token, ok := r.tokens.Token(); ok {
			(&oauth2.Token{AccessToken: token}).SetAuthHeader(outbound)
		}
	}
	if outbound.Header.Get(RequestIDHeader) == "" {
		outbound.Header.Set(RequestIDHeader, requestID(ctx))
	}
	return r.transport.RoundTrip(outbound)
}
