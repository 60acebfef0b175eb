// Package cli implements the authsession command line. It manages the stored
// session and issues API calls with it.
//
// A session-expired redirect is rendered as a hint on stderr telling the
// user to run the login command again.
package cli
