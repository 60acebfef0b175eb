package store

import (
	"errors"
	"strings"

	"github.com/viant/authsession/internal/collection"
)

// ErrNotFound is returned by a Backend when a key has no entry.
var ErrNotFound = errors.New("store: entry not found")

// Backend is a synchronous string key/value facility.
// Implementations report failures as errors; Store turns them into safe defaults.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(key string) error
	Keys() ([]string, error)
}

type memoryBackend struct {
	entries *collection.SyncMap[string, string]
}

func (m *memoryBackend) Get(key string) (string, error) {
	if value, ok := m.entries.Get(key); ok {
		return value, nil
	}
	return "", ErrNotFound
}

func (m *memoryBackend) Set(key, value string) error {
	m.entries.Put(key, value)
	return nil
}

func (m *memoryBackend) Delete(key string) error {
	m.entries.Delete(key)
	return nil
}

func (m *memoryBackend) Keys() ([]string, error) {
	var keys []string
	m.entries.Range(func(key string, _ string) bool {
		keys = append(keys, key)
		return true
	})
	return keys, nil
}

// NewMemoryBackend returns a process local Backend; entries are lost on exit.
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: collection.NewSyncMap[string, string]()}
}

func hasPrefix(key, prefix string) bool {
	return prefix == "" || strings.HasPrefix(key, prefix)
}
