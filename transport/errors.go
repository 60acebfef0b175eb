package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// RequestError reports a request the outbound stage could not build.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid request: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// NetworkError reports a request that produced no response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit the client timeout or a context deadline.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	return errors.As(e.Err, &timeout) && timeout.Timeout()
}

// UnauthorizedError reports a 401 response. By the time it is returned the
// persisted token has been removed and the login redirect issued.
type UnauthorizedError struct {
	Method string
	URL    string
	Body   []byte
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("%s %s: unauthorized", e.Method, e.URL)
}

func (e *UnauthorizedError) StatusCode() int {
	return http.StatusUnauthorized
}

// HTTPError reports any other non-2xx response.
type HTTPError struct {
	Method string
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.Status)
}

func (e *HTTPError) StatusCode() int {
	return e.Status
}

func asRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	ok := errors.As(err, &reqErr)
	return reqErr, ok
}
