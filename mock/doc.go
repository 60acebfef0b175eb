// Package mock provides an in-process identity backend used to exercise the
// session and request pipeline without a real server.
//
// It issues HS256 signed JWTs for a fixed set of users, rejects missing,
// expired or revoked tokens with 401 Unauthorized, and can answer with any
// status code on demand to drive failure paths.
package mock
