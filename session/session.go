// Package session holds the in-memory authentication state of the hosting
// process: the current bearer token and the profile of the signed-in user.
//
// The token is mirrored to a store.TokenEntry on every change and hydrated
// from it on construction, so a restart keeps the user signed in. The
// profile is memory only and must be fetched again after a restart.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/viant/authsession/store"
)

// ErrEmptyToken is returned by SetToken for an empty token.
var ErrEmptyToken = errors.New("session: token must not be empty")

// State is the authentication state derived from the token.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Session is the single owner of the token/profile pair. U is the
// application defined profile type.
type Session[U any] struct {
	mu      sync.RWMutex
	entry   *store.TokenEntry
	token   string
	user    U
	hasUser bool
	logger  *slog.Logger
}

type options struct {
	logger *slog.Logger
}

type Option func(*options)

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a session backed by entry and hydrates the token from it.
func New[U any](entry *store.TokenEntry, opts ...Option) *Session[U] {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	ret := &Session[U]{entry: entry, logger: o.logger}
	if token, ok := entry.Token(); ok {
		ret.token = token
		ret.logger.Debug("session restored from storage", "entry", entry.Key())
	}
	return ret
}

// SetToken makes token current and persists it before returning.
func (s *Session[U]) SetToken(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.entry.SetToken(token)
	return nil
}

// SetUser replaces the profile; it is never persisted.
func (s *Session[U]) SetUser(profile U) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = profile
	s.hasUser = true
}

// Logout clears the token and profile and removes the persisted token.
func (s *Session[U]) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero U
	s.token = ""
	s.user = zero
	s.hasUser = false
	s.entry.RemoveToken()
}

func (s *Session[U]) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session[U]) User() (U, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.hasUser
}

func (s *Session[U]) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Session[U]) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Unauthenticated
}

// Claims returns the unverified claims of a JWT token; false for opaque
// tokens or when signed out.
func (s *Session[U]) Claims() (*Claims, bool) {
	token := s.Token()
	if token == "" {
		return nil, false
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}
