package cache

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores one JSON file per entry, grouped in a subdirectory per
// key type (dataset/, targets/) so a type can be inspected or pruned on
// its own.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache creates a file cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Dir returns the cache directory.
func (c *FileCache) Dir() string { return c.dir }

// Get returns the entry for key. Corrupt and expired files are removed and
// reported as misses.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entry fileEntry
	if json.Unmarshal(raw, &entry) != nil || entry.expired(c.now()) {
		os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes the entry through a temporary sibling and a rename, so readers
// never see a partial file.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes key. Missing entries are not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// FileStats summarises the files of one key type.
type FileStats struct {
	Entries int
	Bytes   uint64
	Expired int
}

// Stats walks the cache and groups entry files by key type.
func (c *FileCache) Stats() (map[string]FileStats, error) {
	stats := make(map[string]FileStats)
	now := c.now()
	err := c.walk(func(typ, path string, size int64) {
		s := stats[typ]
		s.Entries++
		s.Bytes += uint64(size)
		if e, err := readEntry(path); err == nil && e.expired(now) {
			s.Expired++
		}
		stats[typ] = s
	})
	return stats, err
}

// Prune removes expired and unreadable entries and returns how many files
// were deleted.
func (c *FileCache) Prune() (int, error) {
	n := 0
	now := c.now()
	err := c.walk(func(_, path string, _ int64) {
		if e, err := readEntry(path); err == nil && !e.expired(now) {
			return
		}
		if os.Remove(path) == nil {
			n++
		}
	})
	return n, err
}

// Clear removes every entry and the type directories, returning how many
// files were deleted.
func (c *FileCache) Clear() (int, error) {
	n := 0
	dirs := map[string]bool{}
	err := c.walk(func(typ, path string, _ int64) {
		dirs[filepath.Dir(path)] = true
		if os.Remove(path) == nil {
			n++
		}
	})
	for d := range dirs {
		os.Remove(d)
	}
	return n, err
}

// walk calls fn for every entry file below the cache root.
func (c *FileCache) walk(fn func(typ, path string, size int64)) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(c.dir, filepath.Dir(path))
		fn(rel, path, info.Size())
		return nil
	})
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

// path maps key to <dir>/<type>/<sha256>.json.
func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, typeDir(KeyType(key)), Hash([]byte(key))+".json")
}

// typeDir keeps key types usable as directory names.
func typeDir(typ string) string {
	ok := typ != ""
	for _, r := range typ {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			ok = false
			break
		}
	}
	if !ok {
		return "other"
	}
	return typ
}

var _ Cache = (*FileCache)(nil)
