package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/authsession/internal/logging"
	"github.com/viant/authsession/store"
	"github.com/viant/authsession/store/badgerstore"
	"github.com/viant/authsession/store/sqlitestore"
	"github.com/viant/authsession/transport"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Logger builds the logger described by the log section.
func (c *Config) Logger(output io.Writer) *slog.Logger {
	return logging.New(logging.Config{Level: c.Log.Level, Format: c.Log.Format, Output: output})
}

// OpenBackend opens the backend described by the store section. The returned
// closer releases it and must be called once the process is done with it.
func (c *Config) OpenBackend(logger *slog.Logger) (store.Backend, io.Closer, error) {
	location, err := expandHome(c.Store.URL)
	if err != nil {
		return nil, nil, err
	}
	switch c.Store.Kind {
	case StoreMemory:
		return store.NewMemoryBackend(), nopCloser{}, nil
	case StoreFile:
		backend, err := store.OpenFileBackend(location)
		if errors.Is(err, store.ErrCorruptSnapshot) {
			logger.Warn("discarding corrupt store snapshot", "url", location, "error", err)
			err = nil
		}
		if err != nil {
			return nil, nil, err
		}
		return backend, nopCloser{}, nil
	case StoreBadger:
		backend, err := badgerstore.Open(location, logger)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	case StoreSQLite:
		if err = os.MkdirAll(filepath.Dir(location), 0o700); err != nil {
			return nil, nil, fmt.Errorf("create store directory: %w", err)
		}
		backend, err := sqlitestore.Open(location)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	}
	return nil, nil, fmt.Errorf("unsupported store.kind %q", c.Store.Kind)
}

// OpenStore opens the backend and wraps it in the adapter.
func (c *Config) OpenStore(logger *slog.Logger) (*store.Store, io.Closer, error) {
	backend, closer, err := c.OpenBackend(logger)
	if err != nil {
		return nil, nil, err
	}
	return store.New(backend, store.WithNamespace(c.Session.Namespace), store.WithLogger(logger)), closer, nil
}

// TransportOptions returns the client options of the api and session sections.
func (c *Config) TransportOptions() []transport.Option {
	return []transport.Option{
		transport.WithBaseURL(c.API.BaseURL),
		transport.WithTimeout(c.API.Timeout),
		transport.WithLoginPath(c.Session.LoginPath),
	}
}

func expandHome(location string) (string, error) {
	if location != "~" && !strings.HasPrefix(location, "~/") {
		return location, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(location, "~")), nil
}
