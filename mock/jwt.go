package mock

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errRevoked = errors.New("token revoked")

// createJWT creates a signed access token for username.
func (s *Service) createJWT(username string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.Issuer,
		"sub": username,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
		"typ": "access_token",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// authenticate returns the subject of the request's bearer token.
func (s *Service) authenticate(r *http.Request) (string, string, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", "", errors.New("missing bearer token")
	}
	if _, revoked := s.revoked.Get(raw); revoked {
		return "", "", errRevoked
	}
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(s.Issuer))
	if err != nil {
		return "", "", err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", "", err
	}
	return subject, raw, nil
}
