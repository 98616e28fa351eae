package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/matzehuels/tilewall/pkg/errors"
)

// IsURL reports whether src names an http or https resource.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Open loads records from a local file or, for http(s) sources, through f.
// A nil fetcher gets a non-caching default.
func Open(ctx context.Context, src string, f *Fetcher) ([]Record, error) {
	if err := errors.ValidateSource(src); err != nil {
		return nil, err
	}
	if IsURL(src) {
		if f == nil {
			f = NewFetcher(nil, nil)
		}
		return f.Load(ctx, src)
	}

	file, err := os.Open(src)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "dataset not found: %s", src)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "open %s", src)
	}
	defer file.Close()
	return Parse(file)
}

var (
	sampleCountries = []string{"Indonesia", "Japan", "Brazil", "Kenya", "Germany", "Canada", "India", "Mexico"}
	sampleInterests = []string{"Hiking", "Chess", "Music", "Cooking", "Painting", "Cycling", "Photography", "Gaming"}
)

// Sample generates n deterministic placeholder records for running without
// a dataset.
func Sample(n int, seed uint64) []Record {
	n = max(n, 0)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{
			Name:     fmt.Sprintf("Tile %03d", i+1),
			Age:      fmt.Sprint(18 + rng.IntN(60)),
			Country:  sampleCountries[rng.IntN(len(sampleCountries))],
			Interest: sampleInterests[rng.IntN(len(sampleInterests))],
			NetWorth: float64(rng.IntN(30_000_000)) / 100,
		}
	}
	return out
}
