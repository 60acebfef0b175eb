package auth

import (
	"log/slog"

	"github.com/viant/authsession/transport"
)

type config struct {
	logger     *slog.Logger
	redirector transport.Redirector
	transport  []transport.Option
}

type Option func(*config)

// WithLogger sets the logger shared by the session and the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRedirector sets the handler invoked once the session expired.
func WithRedirector(redirector transport.Redirector) Option {
	return func(c *config) {
		c.redirector = redirector
	}
}

// WithTransportOptions passes options to the underlying transport.Client.
func WithTransportOptions(options ...transport.Option) Option {
	return func(c *config) {
		c.transport = append(c.transport, options...)
	}
}
