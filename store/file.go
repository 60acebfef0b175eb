package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// ErrCorruptSnapshot reports a snapshot that could not be decoded.
var ErrCorruptSnapshot = errors.New("store: corrupt snapshot")

// FileBackend keeps all entries in a single JSON snapshot object written
// through afs, so any afs scheme (file://, mem://, ...) can back it.
// Each mutation rewrites the whole snapshot object.
type FileBackend struct {
	mu      sync.RWMutex
	fs      afs.Service
	URL     string
	options []storage.Option
	entries map[string]string
}

type fileSnapshot struct {
	Entries map[string]string `json:"entries"`
}

// OpenFileBackend loads the snapshot at URL; a missing snapshot starts empty.
// A snapshot that cannot be decoded yields a usable empty backend together
// with an error wrapping ErrCorruptSnapshot; the next write replaces it.
func OpenFileBackend(URL string, options ...storage.Option) (*FileBackend, error) {
	ret := &FileBackend{
		fs:      afs.New(),
		URL:     URL,
		options: options,
		entries: map[string]string{},
	}
	return ret, ret.load(context.Background())
}

func (f *FileBackend) Get(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if value, ok := f.entries[key]; ok {
		return value, nil
	}
	return "", ErrNotFound
}

func (f *FileBackend) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	f.entries[key] = value
	if err := f.save(context.Background()); err != nil {
		if had {
			f.entries[key] = prev
		} else {
			delete(f.entries, key)
		}
		return err
	}
	return nil
}

func (f *FileBackend) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.entries[key]
	if !had {
		return nil
	}
	delete(f.entries, key)
	if err := f.save(context.Background()); err != nil {
		f.entries[key] = prev
		return err
	}
	return nil
}

func (f *FileBackend) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	keys := make([]string, 0, len(f.entries))
	for k := range f.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// ---- persistence ----

func (f *FileBackend) save(ctx context.Context) error {
	data, err := json.MarshalIndent(fileSnapshot{Entries: f.entries}, "", "  ")
	if err != nil {
		return err
	}
	// afs.Move places the source inside an existing destination, so the
	// snapshot is uploaded in place; Upload replaces the object whole.
	if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data), f.options...); err != nil {
		return fmt.Errorf("write snapshot %v: %w", f.URL, err)
	}
	return nil
}

func (f *FileBackend) load(ctx context.Context) error {
	exists, err := f.fs.Exists(ctx, f.URL, f.options...)
	if err != nil {
		return fmt.Errorf("check snapshot %v: %w", f.URL, err)
	}
	if !exists {
		return nil
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL, f.options...)
	if err != nil {
		return fmt.Errorf("read snapshot %v: %w", f.URL, err)
	}
	var snap fileSnapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w %v: %v", ErrCorruptSnapshot, f.URL, err)
	}
	for k, v := range snap.Entries {
		f.entries[k] = v
	}
	return nil
}
