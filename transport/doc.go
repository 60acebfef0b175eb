// Package transport implements the authenticated request pipeline.
//
// RoundTripper is the outbound stage: an http.RoundTripper that reads the
// current token from a TokenSource right before each request is sent and
// attaches it as an `Authorization: Bearer <token>` header.
//
// Client is the inbound stage wrapped around an http.Client with a fixed base
// URL and timeout. It hands back only the response body on success and turns
// every failure into one of three error types:
//
//   - *NetworkError: no response was received (dial failure, timeout, cancellation)
//   - *UnauthorizedError: the server answered 401; before returning, the
//     persisted token is removed and the configured Redirector is sent to the
//     login path
//   - *HTTPError: any other non-2xx status
//
// The pipeline never retries; callers decide on retry and backoff.
package transport
