// Package store persists session data in a pluggable key/value backend.
//
// A Backend is a plain string key/value facility that may fail: the bundled
// implementations keep entries in memory, in a JSON snapshot reachable through
// github.com/viant/afs, in Badger (see badgerstore) or in SQLite (see
// sqlitestore).
//
// Store wraps a Backend and never lets a failure reach its caller. Writes that
// cannot be encoded or persisted become no-ops, reads of missing or corrupt
// entries report "absent", and every swallowed failure is logged.
//
// TokenEntry binds a Store to the single key that holds the bearer token, so
// the session and the HTTP pipeline share one definition of where the token
// lives.
package store
