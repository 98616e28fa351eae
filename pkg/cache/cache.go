// Package cache provides byte-oriented caching for datasets and target sets.
//
// All backends implement [Cache]. The CLI defaults to [FileCache] under the
// XDG cache directory; the server can share a [RedisCache] or [MongoCache]
// between instances. [NullCache] disables caching entirely.
//
// Keys are built by a [Keyer] so every backend agrees on the layout:
//
//	k := cache.NewDefaultKeyer()
//	k.DatasetKey("https://example.com/sheet.csv") // "dataset:<sha256>"
//	k.TargetsKey("sphere", 200)                    // "targets:sphere:200:v1"
//
// Wrap a backend with [Observed] to report hits and misses through the
// observability hooks.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Default time-to-live values per key type.
const (
	TTLDataset = 24 * time.Hour
	TTLTargets = 7 * 24 * time.Hour
)

// TargetsVersion is bumped whenever a layout generator changes its output,
// invalidating previously cached target sets.
const TargetsVersion = 1

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey returns the key for the raw bytes fetched from source.
	DatasetKey(source string) string

	// TargetsKey returns the key for the target set of one arrangement at
	// size n.
	TargetsKey(arrangement string, n int) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey hashes the source so URLs with query strings stay safe.
// Surrounding whitespace is ignored.
func (DefaultKeyer) DatasetKey(source string) string {
	return "dataset:" + Hash([]byte(strings.TrimSpace(source)))
}

// TargetsKey is readable since its inputs are bounded.
func (DefaultKeyer) TargetsKey(arrangement string, n int) string {
	return fmt.Sprintf("targets:%s:%d:v%d", arrangement, n, TargetsVersion)
}

// KeyType returns the prefix of key up to the first colon, used to label
// metrics.
func KeyType(key string) string {
	typ, _, _ := strings.Cut(key, ":")
	return typ
}

// Hash returns the hex SHA-256 of data. File names and dataset keys use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
