package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/viant/authsession/session"
	"github.com/viant/authsession/store"
	"github.com/viant/authsession/transport"
)

const (
	LoginPath   = "/v1/auth/login"
	LogoutPath  = "/v1/auth/logout"
	ProfilePath = "/v1/auth/me"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects a login.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrMissingToken is returned when a login response carries no token.
	ErrMissingToken = errors.New("auth: login response has no access token")
)

// Session is the session type managed by Service.
type Session = session.Session[*session.Profile]

// Service drives the login, logout and profile calls of the backend and
// keeps the session in step with their outcome.
type Service struct {
	session *Session
	client  *transport.Client
	logger  *slog.Logger
}

// New creates a Service for the token persisted in entry.
func New(entry *store.TokenEntry, options ...Option) (*Service, error) {
	o := &config{logger: slog.Default()}
	for _, opt := range options {
		opt(o)
	}
	sess := session.New[*session.Profile](entry, session.WithLogger(o.logger))
	ret := &Service{session: sess, logger: o.logger}
	redirector := transport.RedirectFunc(func(ctx context.Context, location string) {
		// the persisted token is already gone; drop the in-memory copy too
		sess.Logout()
		if o.redirector != nil {
			o.redirector.Redirect(ctx, location)
		}
	})
	transportOptions := append([]transport.Option{transport.WithLogger(o.logger)}, o.transport...)
	transportOptions = append(transportOptions, transport.WithRedirector(redirector))
	client, err := transport.New(entry, transportOptions...)
	if err != nil {
		return nil, err
	}
	ret.client = client
	return ret, nil
}

func (s *Service) Session() *Session {
	return s.session
}

func (s *Service) Client() *transport.Client {
	return s.client
}

// Login exchanges credentials for a token, stores it and sets the profile.
func (s *Service) Login(ctx context.Context, credentials *Credentials) (*session.Profile, error) {
	var result Result[LoginResponse]
	err := s.client.DoJSON(transport.WithoutAuth(ctx), http.MethodPost, LoginPath, credentials, &result)
	if err != nil {
		var httpErr *transport.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, message(httpErr.Body))
		}
		return nil, err
	}
	if result.Data.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if err = s.session.SetToken(result.Data.AccessToken); err != nil {
		return nil, err
	}
	profile := result.Data.UserInfo
	s.session.SetUser(&profile)
	s.logger.Info("signed in", "user", profile.Username)
	return &profile, nil
}

// Logout notifies the backend and always clears the local session, even
// when the backend call fails.
func (s *Service) Logout(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		s.session.Logout()
		return nil
	}
	_, err := s.client.Post(ctx, LogoutPath, nil)
	s.session.Logout()
	if err != nil {
		var unauthorized *transport.UnauthorizedError
		if errors.As(err, &unauthorized) {
			return nil
		}
		s.logger.Warn("backend logout failed", "error", err)
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// Refresh fetches the profile of the current token and sets it on the
// session.
func (s *Service) Refresh(ctx context.Context) (*session.Profile, error) {
	var result Result[session.Profile]
	if err := s.client.DoJSON(ctx, http.MethodGet, ProfilePath, nil, &result); err != nil {
		return nil, err
	}
	profile := result.Data
	s.session.SetUser(&profile)
	return &profile, nil
}

// Profile returns the cached profile, fetching it when the session has a
// token but no profile yet.
func (s *Service) Profile(ctx context.Context) (*session.Profile, error) {
	if profile, ok := s.session.User(); ok && profile != nil {
		return profile, nil
	}
	return s.Refresh(ctx)
}

func message(body []byte) string {
	var result Result[json.RawMessage]
	if err := json.Unmarshal(body, &result); err != nil || result.Message == "" {
		return http.StatusText(http.StatusBadRequest)
	}
	return result.Message
}
