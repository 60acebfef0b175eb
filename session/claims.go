package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the informational subset of a JWT payload. Signatures are not
// verified; the backend stays the only authority on token validity.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the claims of a JWT without verifying it.
func ParseClaims(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("parse token claims: %w", err)
	}
	ret := &Claims{}
	if ret.Subject, err = parsed.Claims.GetSubject(); err != nil {
		return nil, err
	}
	if ret.Issuer, err = parsed.Claims.GetIssuer(); err != nil {
		return nil, err
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	if exp != nil {
		ret.ExpiresAt = exp.Time
	}
	iat, err := parsed.Claims.GetIssuedAt()
	if err != nil {
		return nil, err
	}
	if iat != nil {
		ret.IssuedAt = iat.Time
	}
	return ret, nil
}
