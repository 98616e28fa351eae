// Package config loads tilewall.toml and merges it with command-line flags.
//
// Precedence is flags, then file, then built-in defaults:
//
//	cfg, err := config.LoadDefault()
//	cfg.Resolve(config.Flags{FPS: 30})
//	if err := cfg.Validate(); err != nil { ... }
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tilewall/pkg/cache"
	"github.com/matzehuels/tilewall/pkg/errors"
	"github.com/matzehuels/tilewall/pkg/motion"
	"github.com/matzehuels/tilewall/pkg/render"
)

// FileName is the config file looked up by [LoadDefault].
const FileName = "tilewall.toml"

// Defaults applied by [Config.Resolve].
const (
	DefaultDuration     = 1500 * time.Millisecond
	DefaultFPS          = 60
	DefaultSeed         = 42
	DefaultCount        = 200
	DefaultWidth        = 1280
	DefaultHeight       = 720
	DefaultSupersample  = 2
	DefaultAddr         = ":8080"
	DefaultCacheBackend = "file"
	DefaultEasing       = "expo"
	DefaultFog          = 0.35
)

// Config holds every setting.
type Config struct {
	Dataset   DatasetConfig   `toml:"dataset"`
	Animation AnimationConfig `toml:"animation"`
	Render    RenderConfig    `toml:"render"`
	Server    ServerConfig    `toml:"server"`
	Cache     CacheConfig     `toml:"cache"`
}

// DatasetConfig selects the tiles to show.
type DatasetConfig struct {
	// Source is a CSV path or http(s) URL. Empty means generated samples.
	Source string `toml:"source"`
	// Count is the number of sample tiles when Source is empty.
	Count int `toml:"count"`
}

// AnimationConfig controls transitions.
type AnimationConfig struct {
	Duration *time.Duration `toml:"duration"`
	FPS      int            `toml:"fps"`
	Seed     uint64         `toml:"seed"`
	Easing   string         `toml:"easing"`
}

// RenderConfig controls image output.
type RenderConfig struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Supersample int     `toml:"supersample"`
	Labels      bool    `toml:"labels"`
	Fog         *float64 `toml:"fog"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	Entries int           `toml:"entries"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Load reads a TOML config file. Unknown keys are rejected so typos do not
// pass silently.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, errors.New(errors.ErrCodeFileNotFound, "config not found: %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text.
func Parse(text string) (Config, error) {
	var cfg Config
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDefault loads ./tilewall.toml, falling back to the user config
// directory. A missing file yields an empty config.
func LoadDefault() (Config, error) {
	for _, path := range SearchPaths() {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Config{}, nil
}

// SearchPaths lists where [LoadDefault] looks, in order.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "tilewall", FileName))
	}
	return paths
}

// Flags holds CLI flag values that override config file settings. Zero
// values leave the file setting alone.
type Flags struct {
	Source       string
	Count        int
	Duration     *time.Duration
	FPS          int
	Seed         uint64
	Width        int
	Height       int
	Addr         string
	CacheBackend string
	NoCache      bool
}

// Resolve applies flag overrides and then fills remaining zero values with
// defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Source != "" {
		c.Dataset.Source = flags.Source
	}
	if flags.Count > 0 {
		c.Dataset.Count = flags.Count
	}
	if flags.Duration != nil {
		d := *flags.Duration
		c.Animation.Duration = &d
	}
	if flags.FPS > 0 {
		c.Animation.FPS = flags.FPS
	}
	if flags.Seed != 0 {
		c.Animation.Seed = flags.Seed
	}
	if flags.Width > 0 {
		c.Render.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Render.Height = flags.Height
	}
	if flags.Addr != "" {
		c.Server.Addr = flags.Addr
	}
	if flags.CacheBackend != "" {
		c.Cache.Backend = flags.CacheBackend
	}
	if flags.NoCache {
		c.Cache.Backend = "none"
	}

	if c.Dataset.Count <= 0 {
		c.Dataset.Count = DefaultCount
	}
	if c.Animation.Duration == nil {
		d := DefaultDuration
		c.Animation.Duration = &d
	}
	if c.Animation.FPS <= 0 {
		c.Animation.FPS = DefaultFPS
	}
	if c.Animation.Seed == 0 {
		c.Animation.Seed = DefaultSeed
	}
	if c.Animation.Easing == "" {
		c.Animation.Easing = DefaultEasing
	}
	if c.Render.Width <= 0 {
		c.Render.Width = DefaultWidth
	}
	if c.Render.Height <= 0 {
		c.Render.Height = DefaultHeight
	}
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = DefaultSupersample
	}
	if c.Render.Fog == nil {
		f := DefaultFog
		c.Render.Fog = &f
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if c.Dataset.Source != "" {
		if err := errors.ValidateSource(c.Dataset.Source); err != nil {
			return err
		}
	}
	if err := errors.ValidateCount(c.Dataset.Count); err != nil {
		return err
	}
	if err := errors.ValidateDuration(c.TransitionDuration()); err != nil {
		return err
	}
	if err := errors.ValidateFPS(float64(c.Animation.FPS)); err != nil {
		return err
	}
	if err := errors.ValidateFormat(c.Animation.Easing, "expo", "linear"); err != nil {
		return err
	}
	if err := errors.ValidateFormat(c.Cache.Backend, cache.Backends()...); err != nil {
		return err
	}
	if f := c.Render.Fog; f != nil && (*f < 0 || *f > 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.fog must be within [0, 1]: %v", *f)
	}
	return nil
}

// TransitionDuration returns the configured duration, or the default.
func (c *Config) TransitionDuration() time.Duration {
	if c.Animation.Duration == nil {
		return DefaultDuration
	}
	return *c.Animation.Duration
}

// Easing returns the configured easing function.
func (c *Config) Easing() motion.Easing {
	if c.Animation.Easing == "linear" {
		return motion.Linear
	}
	return motion.ExponentialInOut
}

// CacheOptions converts the cache section for [cache.Open]. dir is used when
// the file backend has no directory configured.
func (c *Config) CacheOptions(dir string) cache.Options {
	if c.Cache.Dir != "" {
		dir = c.Cache.Dir
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Entries: c.Cache.Entries,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.Mongo.URI,
			Database:   c.Cache.Mongo.Database,
			Collection: c.Cache.Mongo.Collection,
		},
	}
}

// RenderOptions converts the render section for the image and SVG sinks.
func (c *Config) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithSize(c.Render.Width, c.Render.Height),
		render.WithSupersample(c.Render.Supersample),
	}
	if c.Render.Fog != nil {
		opts = append(opts, render.WithFog(*c.Render.Fog))
	}
	if c.Render.Labels {
		opts = append(opts, render.WithLabels())
	}
	return opts
}
