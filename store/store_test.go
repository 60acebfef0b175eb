package store_test

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authsession/store"
)

type failingBackend struct {
	err error
}

func (f *failingBackend) Get(string) (string, error) { return "", f.err }
func (f *failingBackend) Set(string, string) error   { return f.err }
func (f *failingBackend) Delete(string) error        { return f.err }
func (f *failingBackend) Keys() ([]string, error)    { return nil, f.err }

type panickingBackend struct{}

func (panickingBackend) Get(string) (string, error) { panic("storage disabled") }
func (panickingBackend) Set(string, string) error   { panic("quota exceeded") }
func (panickingBackend) Delete(string) error        { panic("storage disabled") }
func (panickingBackend) Keys() ([]string, error)    { panic("storage disabled") }

func newLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

type profile struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

func TestStore_RoundTrip(t *testing.T) {
	var testCases = []struct {
		description string
		value       any
		dest        func() any
		expect      any
	}{
		{
			description: "string",
			value:       "hello",
			dest:        func() any { return new(string) },
			expect:      "hello",
		},
		{
			description: "number",
			value:       42.5,
			dest:        func() any { return new(float64) },
			expect:      42.5,
		},
		{
			description: "struct",
			value:       profile{ID: 7, Name: "admin", Roles: []string{"root", "audit"}},
			dest:        func() any { return new(profile) },
			expect:      profile{ID: 7, Name: "admin", Roles: []string{"root", "audit"}},
		},
		{
			description: "map",
			value:       map[string]any{"theme": "dark", "size": 3.0},
			dest:        func() any { return &map[string]any{} },
			expect:      map[string]any{"theme": "dark", "size": 3.0},
		},
		{
			description: "slice",
			value:       []int{1, 2, 3},
			dest:        func() any { return &[]int{} },
			expect:      []int{1, 2, 3},
		},
		{
			description: "bool false",
			value:       false,
			dest:        func() any { return new(bool) },
			expect:      false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			s := store.New(store.NewMemoryBackend())
			s.Set("k", testCase.value)
			dest := testCase.dest()
			ok := s.Get("k", dest)
			assert.True(t, ok, testCase.description)
			switch actual := dest.(type) {
			case *string:
				assert.EqualValues(t, testCase.expect, *actual)
			case *float64:
				assert.EqualValues(t, testCase.expect, *actual)
			case *profile:
				assert.EqualValues(t, testCase.expect, *actual)
			case *map[string]any:
				assert.EqualValues(t, testCase.expect, *actual)
			case *[]int:
				assert.EqualValues(t, testCase.expect, *actual)
			case *bool:
				assert.EqualValues(t, testCase.expect, *actual)
			}
		})
	}
}

func TestStore_GetAbsent(t *testing.T) {
	s := store.New(nil)
	var value string
	assert.False(t, s.Get("missing", &value))
	_, ok := s.GetRaw("missing")
	assert.False(t, ok)
}

func TestStore_RemoveIdempotent(t *testing.T) {
	s := store.New(store.NewMemoryBackend())
	s.Set("k", "v")
	s.Remove("k")
	s.Remove("k")
	var value string
	assert.False(t, s.Get("k", &value))
}

func TestStore_CorruptEntry(t *testing.T) {
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Set("settings", "{not json"))
	logger, buf := newLogger()
	s := store.New(backend, store.WithLogger(logger))

	var settings map[string]any
	assert.False(t, s.Get("settings", &settings))
	assert.Nil(t, settings)
	assert.Contains(t, buf.String(), "failed to decode storage entry")
}

func TestStore_NullEntryIsAbsent(t *testing.T) {
	s := store.New(store.NewMemoryBackend())
	s.Set("k", nil)
	var value map[string]any
	assert.False(t, s.Get("k", &value))
}

func TestStore_UnencodableValue(t *testing.T) {
	logger, buf := newLogger()
	s := store.New(store.NewMemoryBackend(), store.WithLogger(logger))
	s.Set("k", make(chan int))
	_, ok := s.GetRaw("k")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "failed to encode storage entry")
}

func TestStore_BackendFailures(t *testing.T) {
	logger, buf := newLogger()
	s := store.New(&failingBackend{err: errors.New("quota exceeded")}, store.WithLogger(logger))

	assert.NotPanics(t, func() {
		s.Set("k", "v")
		s.SetRaw("k", "v")
		s.Remove("k")
		s.Clear()
	})
	var value string
	assert.False(t, s.Get("k", &value))
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestStore_BackendPanics(t *testing.T) {
	logger, buf := newLogger()
	s := store.New(panickingBackend{}, store.WithLogger(logger))
	assert.NotPanics(t, func() {
		s.Set("k", "v")
		var value string
		assert.False(t, s.Get("k", &value))
		_, ok := s.GetRaw("k")
		assert.False(t, ok)
		s.Remove("k")
		s.Clear()
	})
	assert.Contains(t, buf.String(), "storage operation panicked")
}

func TestStore_ClearNamespace(t *testing.T) {
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Set("other:k", "keep"))
	s := store.New(backend, store.WithNamespace("app:"))
	s.SetRaw("a", "1")
	s.Set("b", 2)

	s.Clear()

	_, ok := s.GetRaw("a")
	assert.False(t, ok)
	_, ok = s.GetRaw("b")
	assert.False(t, ok)
	value, err := backend.Get("other:k")
	assert.NoError(t, err)
	assert.Equal(t, "keep", value)
}

func TestStore_SiblingNamespaces(t *testing.T) {
	backend := store.NewMemoryBackend()
	app := store.New(backend, store.WithNamespace("app"))
	app2 := store.New(backend, store.WithNamespace("app2"))
	app.SetRaw("2access_token", "alice")
	app2.SetRaw("access_token", "bob")

	keys, err := backend.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app:2access_token", "app2:access_token"}, keys)

	app.Clear()

	_, ok := app.GetRaw("2access_token")
	assert.False(t, ok)
	token, ok := app2.GetRaw("access_token")
	assert.True(t, ok)
	assert.Equal(t, "bob", token)
}

func TestTokenEntry(t *testing.T) {
	backend := store.NewMemoryBackend()
	entry := store.NewTokenEntry(store.New(backend), "")
	assert.Equal(t, store.DefaultTokenKey, entry.Key())

	entry.SetToken("abc123")
	raw, err := backend.Get(store.DefaultTokenKey)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", raw, "token must be stored raw")

	token, ok := entry.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	entry.RemoveToken()
	entry.RemoveToken()
	_, ok = entry.Token()
	assert.False(t, ok)
}

func TestFileBackend(t *testing.T) {
	URL := filepath.Join(t.TempDir(), "state", "store.json")

	backend, err := store.OpenFileBackend(URL)
	require.NoError(t, err)
	s := store.New(backend)
	s.SetRaw(store.DefaultTokenKey, "abc123")
	s.Set("prefs", map[string]string{"lang": "en"})
	info, err := os.Stat(URL)
	require.NoError(t, err)
	assert.False(t, info.IsDir(), "snapshot must be a regular file")

	reopened, err := store.OpenFileBackend(URL)
	require.NoError(t, err)
	s = store.New(reopened)
	token, ok := s.GetRaw(store.DefaultTokenKey)
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)
	var prefs map[string]string
	assert.True(t, s.Get("prefs", &prefs))
	assert.Equal(t, map[string]string{"lang": "en"}, prefs)

	s.Remove(store.DefaultTokenKey)
	reopened, err = store.OpenFileBackend(URL)
	require.NoError(t, err)
	keys, err := reopened.Keys()
	assert.NoError(t, err)
	assert.Equal(t, []string{"prefs"}, keys)
}

func TestFileBackend_CorruptSnapshot(t *testing.T) {
	URL := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(URL, []byte("garbage"), 0o600))

	backend, err := store.OpenFileBackend(URL)
	assert.ErrorIs(t, err, store.ErrCorruptSnapshot)
	require.NotNil(t, backend)

	s := store.New(backend)
	_, ok := s.GetRaw(store.DefaultTokenKey)
	assert.False(t, ok)
	s.SetRaw(store.DefaultTokenKey, "fresh")

	reopened, err := store.OpenFileBackend(URL)
	require.NoError(t, err)
	value, err := reopened.Get(store.DefaultTokenKey)
	assert.NoError(t, err)
	assert.Equal(t, "fresh", value)
}
