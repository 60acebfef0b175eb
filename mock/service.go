package mock

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/viant/authsession/internal/collection"
	"github.com/viant/authsession/session"
)

// User is an account known to the backend.
type User struct {
	Password string
	Profile  session.Profile
}

// Service is the mock identity backend. Handler funcs may be overridden to
// change the behaviour of a single endpoint.
type Service struct {
	Issuer   string
	Secret   []byte
	TokenTTL time.Duration
	Users    map[string]*User

	LoginHandler   http.HandlerFunc
	LogoutHandler  http.HandlerFunc
	ProfileHandler http.HandlerFunc
	EchoHandler    http.HandlerFunc

	revoked *collection.SyncMap[string, time.Time]
}

// New returns a backend with a single "admin"/"admin123" account.
func New() *Service {
	return &Service{
		Issuer:   "authsession-mock",
		Secret:   []byte("mock-signing-secret"),
		TokenTTL: time.Hour,
		Users: map[string]*User{
			"admin": {
				Password: "admin123",
				Profile: session.Profile{
					ID:          1,
					Username:    "admin",
					Nickname:    "Administrator",
					Email:       "admin@example.com",
					Roles:       []string{"admin"},
					Permissions: []string{"*:*:*"},
				},
			},
		},
		revoked: collection.NewSyncMap[string, time.Time](),
	}
}

// Revoke invalidates token; later requests carrying it get 401.
func (s *Service) Revoke(token string) {
	s.revoked.Put(token, time.Now())
}

// Handler returns the router serving the backend under /api.
func (s *Service) Handler() http.Handler {
	return &Handler{Service: s}
}

// NewHTTPTestServer starts the backend on a local listener.
func NewHTTPTestServer() (*httptest.Server, *Service) {
	service := New()
	return httptest.NewServer(service.Handler()), service
}
