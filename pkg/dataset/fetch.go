package dataset

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/httputil"
)

// Fetcher downloads remote datasets, retrying transient failures and caching
// successful bodies.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger

	// Backoff spaces retries of transient failures.
	Backoff httputil.Backoff
}

// NewFetcher returns a fetcher using c for caching. A nil cache disables
// caching.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fetcher{
		Client:  &http.Client{Timeout: 30 * time.Second},
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		TTL:     cache.TTLDataset,
		Logger:  logger,
		Backoff: httputil.DefaultBackoff,
	}
}

// Fetch returns the body at url, from cache when possible.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	key := f.Keyer.DatasetKey(url)
	if data, ok, err := f.Cache.Get(ctx, key); err != nil {
		f.Logger.Warn("dataset cache read failed", "err", err)
	} else if ok {
		f.Logger.Debug("dataset cache hit", "url", url, "bytes", len(data))
		return data, nil
	}

	var body []byte
	err := f.Backoff.Retry(ctx, func(attempt int) (err error) {
		body, err = httputil.Fetch(ctx, f.Client, url)
		if err != nil {
			f.Logger.Debug("dataset fetch failed", "url", url, "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch %s", url)
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}

	if err := f.Cache.Set(ctx, key, body, f.TTL); err != nil {
		f.Logger.Warn("dataset cache write failed", "err", err)
	}
	return body, nil
}

// Load fetches url and parses it.
func (f *Fetcher) Load(ctx context.Context, url string) ([]Record, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Parse(bytes.NewReader(body))
}
