// Package config loads the authsession configuration.
//
// Sources are merged in order, later ones winning: built-in defaults, an
// optional YAML file and AUTHSESSION_* environment variables, where
// AUTHSESSION_API_BASE_URL maps to api.base_url.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/viant/authsession/store"
	"github.com/viant/authsession/transport"
)

// DefaultEnvPrefix is the environment variable prefix.
const DefaultEnvPrefix = "AUTHSESSION_"

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
)

type Config struct {
	API     API     `koanf:"api"`
	Session Session `koanf:"session"`
	Store   Store   `koanf:"store"`
	Log     Log     `koanf:"log"`
}

type API struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Session struct {
	TokenKey  string `koanf:"token_key"`
	LoginPath string `koanf:"login_path"`
	Namespace string `koanf:"namespace"`
}

type Store struct {
	Kind string `koanf:"kind"`
	URL  string `koanf:"url"`
}

type Log struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory:
	case StoreFile, StoreBadger, StoreSQLite:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for %q store", c.Store.Kind)
		}
	default:
		return fmt.Errorf("unsupported store.kind %q", c.Store.Kind)
	}
	if c.Session.TokenKey == "" {
		return fmt.Errorf("session.token_key must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	return nil
}

func defaults() map[string]any {
	return map[string]any{
		"api": map[string]any{
			"base_url": transport.DefaultBaseURL,
			"timeout":  transport.DefaultTimeout.String(),
		},
		"session": map[string]any{
			"token_key":  store.DefaultTokenKey,
			"login_path": transport.DefaultLoginPath,
			"namespace":  "",
		},
		"store": map[string]any{
			"kind": StoreFile,
			"url":  "~/.authsession/store.json",
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load merges all sources and returns the validated configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load file %s: %w", l.filePath, err)
		}
	}
	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	ret := &Config{}
	if err := l.k.Unmarshal("", ret); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// envKey maps AUTHSESSION_SECTION_SOME_KEY to section.some_key; every key
// lives one level below its section.
func (l *Loader) envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

// Load is a shortcut for NewLoader(WithConfigFile(path)).Load().
func Load(path string) (*Config, error) {
	return NewLoader(WithConfigFile(path)).Load()
}

type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("config: map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return m, nil
}
