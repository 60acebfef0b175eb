// Package auth binds a session to a transport.Client and implements the
// login, logout and profile calls of the identity backend.
//
// An expired session seen on any request clears both the persisted and the
// in-memory token before the configured redirector runs.
package auth
