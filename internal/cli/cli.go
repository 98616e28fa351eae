package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tilewall/internal/config"
	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/dataset"
	"github.com/matzehuels/tilewall/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tilewall"

	// loadTimeout bounds dataset download including retries.
	loadTimeout = 2 * time.Minute
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Config, Cache and Dataset
// =============================================================================

// loadConfig reads --config (or the default search path), applies flags and
// validates the result.
func (c *CLI) loadConfig(flags config.Flags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return cfg, err
	}
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	c.Logger.Debug("config resolved",
		"source", cfg.Dataset.Source,
		"count", cfg.Dataset.Count,
		"fps", cfg.Animation.FPS,
		"cache", cfg.Cache.Backend)
	return cfg, nil
}

// openCache opens the configured backend. A file cache without a usable
// directory degrades to no caching.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	dir, err := cacheDir()
	if err != nil && cfg.Cache.Backend == cache.BackendFile && cfg.Cache.Dir == "" {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions(dir))
}

// loadRecords reads the configured dataset, or generates placeholder rows
// when no source is set.
func (c *CLI) loadRecords(ctx context.Context, cfg config.Config, store cache.Cache) ([]dataset.Record, error) {
	if cfg.Dataset.Source == "" {
		c.Logger.Debug("no dataset source, using sample rows", "count", cfg.Dataset.Count)
		return dataset.Sample(cfg.Dataset.Count, cfg.Animation.Seed), nil
	}

	ctx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()

	f := dataset.NewFetcher(store, component(c.Logger, "dataset"))
	if cfg.Cache.TTL > 0 {
		f.TTL = cfg.Cache.TTL
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+cfg.Dataset.Source+"...")
	spinner.Start()
	records, err := dataset.Open(ctx, cfg.Dataset.Source, f)
	if err != nil {
		spinner.StopWithError("Load failed")
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	spinner.Stop()
	prog.done("Dataset loaded", "records", len(records), "source", cfg.Dataset.Source)
	return records, nil
}

// newScene builds a scene from cfg and loads it for n items.
func (c *CLI) newScene(cfg config.Config, n int, opts ...scene.Option) *scene.Scene {
	base := []scene.Option{
		scene.WithDuration(cfg.TransitionDuration()),
		scene.WithSeed(cfg.Animation.Seed),
		scene.WithEasing(cfg.Easing()),
		scene.WithLogger(component(c.Logger, "scene")),
	}
	sc := scene.New(append(base, opts...)...)
	sc.Load(n)
	return sc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tilewall/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
