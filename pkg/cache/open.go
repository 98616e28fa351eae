package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists every name [Open] accepts.
func Backends() []string {
	return []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}
}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend string
	Dir     string
	Entries int // memory backend capacity
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open creates the backend named by opts.Backend and wraps it with
// [Observed]. An empty backend means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		c, err = NewFileCache(opts.Dir)
	case BackendMemory:
		c, err = NewMemoryCache(opts.Entries)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		c, err = NewMongoCache(ctx, opts.Mongo)
	case BackendNone:
		c = NewNullCache()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", opts.Backend, err)
	}
	return Observed(c), nil
}
