package transport

import "context"

// Redirector sends the user to location once the session is known to be
// invalid. The hosting application decides what a redirect means: a browser
// navigation, an HTTP 302, or a login prompt in a terminal.
//
// Redirect runs once per 401 response, including 401s of requests that were
// in flight when the user logged out or signed in again.
type Redirector interface {
	Redirect(ctx context.Context, location string)
}

// RedirectFunc adapts a function to Redirector.
type RedirectFunc func(ctx context.Context, location string)

func (f RedirectFunc) Redirect(ctx context.Context, location string) {
	f(ctx, location)
}

type nopRedirector struct{}

func (nopRedirector) Redirect(context.Context, string) {}
