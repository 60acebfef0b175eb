package store

// DefaultTokenKey is the entry holding the bearer token when none is configured.
const DefaultTokenKey = "access_token"

// TokenEntry is the durable copy of the bearer token. The token is stored
// raw, not JSON encoded.
type TokenEntry struct {
	store *Store
	key   string
}

// NewTokenEntry binds store to key; an empty key selects DefaultTokenKey.
func NewTokenEntry(store *Store, key string) *TokenEntry {
	if key == "" {
		key = DefaultTokenKey
	}
	return &TokenEntry{store: store, key: key}
}

func (e *TokenEntry) Key() string {
	return e.key
}

// Token returns the persisted token, if any.
func (e *TokenEntry) Token() (string, bool) {
	return e.store.GetRaw(e.key)
}

func (e *TokenEntry) SetToken(token string) {
	e.store.SetRaw(e.key, token)
}

// RemoveToken is idempotent.
func (e *TokenEntry) RemoveToken() {
	e.store.Remove(e.key)
}
