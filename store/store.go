package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Store is a fail-soft adapter over a Backend. None of its methods return
// errors or panic; failures are logged and degrade to "absent" or "no-op".
type Store struct {
	backend Backend
	prefix  string
	logger  *slog.Logger
}

type Option func(*Store)

// NamespaceSeparator joins a namespace and a key in the backend.
const NamespaceSeparator = ":"

// WithNamespace stores every key as namespace:key; Clear only touches keys
// of that namespace. A trailing separator in namespace is ignored.
func WithNamespace(namespace string) Option {
	return func(s *Store) {
		s.prefix = ""
		if namespace = strings.TrimSuffix(namespace, NamespaceSeparator); namespace != "" {
			s.prefix = namespace + NamespaceSeparator
		}
	}
}

// WithLogger sets the logger used to report swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps backend; a nil backend falls back to NewMemoryBackend.
func New(backend Backend, options ...Option) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	ret := &Store{backend: backend, logger: slog.Default()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Set stores value JSON encoded under key.
func (s *Store) Set(key string, value any) {
	defer s.recover("set", key)
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode storage entry", "entry", key, "error", err)
		return
	}
	s.SetRaw(key, string(data))
}

// Get decodes the entry under key into dest and reports whether it did.
// Missing, empty, null and undecodable entries all report false.
func (s *Store) Get(key string, dest any) (ok bool) {
	defer s.recover("get", key)
	raw, found := s.GetRaw(key)
	if !found || raw == "null" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Error("failed to decode storage entry", "entry", key, "error", err)
		return false
	}
	return true
}

// SetRaw stores value as is.
func (s *Store) SetRaw(key, value string) {
	defer s.recover("set", key)
	if err := s.backend.Set(s.prefix+key, value); err != nil {
		s.logger.Error("failed to write storage entry", "entry", key, "error", err)
	}
}

// GetRaw returns the stored string; an empty value counts as absent.
func (s *Store) GetRaw(key string) (value string, ok bool) {
	defer s.recover("get", key)
	value, err := s.backend.Get(s.prefix + key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to read storage entry", "entry", key, "error", err)
		}
		return "", false
	}
	return value, value != ""
}

// Remove deletes key; removing a missing key is a no-op.
func (s *Store) Remove(key string) {
	defer s.recover("remove", key)
	if err := s.backend.Delete(s.prefix + key); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to remove storage entry", "entry", key, "error", err)
	}
}

// Clear removes every entry of the store namespace. Without a namespace the
// store owns the whole backend and Clear empties it.
func (s *Store) Clear() {
	defer s.recover("clear", "")
	keys, err := s.backend.Keys()
	if err != nil {
		s.logger.Error("failed to list storage entries", "error", err)
		return
	}
	for _, key := range keys {
		if !hasPrefix(key, s.prefix) {
			continue
		}
		if err = s.backend.Delete(key); err != nil && !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to clear storage entry", "entry", key, "error", err)
		}
	}
}

func (s *Store) recover(op, key string) {
	if r := recover(); r != nil {
		s.logger.Error("storage operation panicked", "op", op, "entry", key, "error", fmt.Sprint(r))
	}
}
