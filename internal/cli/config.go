package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	"github.com/matzehuels/png2svg/pkg/pipeline"
	"github.com/matzehuels/png2svg/pkg/server"
)

// configFileName is the file looked up in the config directory.
const configFileName = "config.toml"

// Config is the on-disk configuration. Every field is optional; command-line
// flags take precedence over file values.
//
//	workers = 8
//	keep_every_point = false
//	extensions = [".png", ".webp"]
//	max_pixels = 67108864
//
//	[cache]
//	enabled = true
//	dir = "/var/cache/png2svg"
//	redis_url = "redis://localhost:6379/0"
//	key_prefix = "png2svg:"
//	ttl = "168h"
//
//	[serve]
//	addr = ":8080"
//	max_upload_bytes = 33554432
type Config struct {
	Workers        int         `toml:"workers"`
	KeepEveryPoint bool        `toml:"keep_every_point"`
	Extensions     []string    `toml:"extensions"`
	MaxPixels      int64       `toml:"max_pixels"`
	Cache          CacheConfig `toml:"cache"`
	Serve          ServeConfig `toml:"serve"`
}

// CacheConfig configures the conversion cache.
type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	Dir       string   `toml:"dir"`
	RedisURL  string   `toml:"redis_url"`
	KeyPrefix string   `toml:"key_prefix"`
	TTL       duration `toml:"ttl"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr           string `toml:"addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

// duration decodes TOML strings such as "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// defaultConfig returns the configuration used when no file exists.
func defaultConfig() Config {
	return Config{
		Extensions: []string{pipeline.DefaultExtension},
		Cache: CacheConfig{
			Enabled:   true,
			KeyPrefix: appName + ":",
			TTL:       duration{pipeline.DefaultTTL},
		},
		Serve: ServeConfig{
			Addr:           server.DefaultAddr,
			MaxUploadBytes: server.DefaultMaxUploadBytes,
		},
	}
}

// loadConfig reads the config file at path on top of the defaults. An empty
// path means the default location, where a missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return defaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, pkgerr.Wrap(pkgerr.ErrCodeInvalidConfig, err, "config file %s", path)
		}
		return cfg, pkgerr.Wrap(pkgerr.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if cfg.Workers < 0 {
		return cfg, pkgerr.New(pkgerr.ErrCodeInvalidConfig, "%s: workers must not be negative", path)
	}
	if cfg.MaxPixels < 0 {
		return cfg, pkgerr.New(pkgerr.ErrCodeInvalidConfig, "%s: max_pixels must not be negative", path)
	}
	if _, err := pkgerr.ValidateExtensions(cfg.Extensions); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// pipelineOptions converts the file configuration into pipeline options.
func (c Config) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		KeepEveryPoint: c.KeepEveryPoint,
		Workers:        c.Workers,
		Extensions:     append([]string(nil), c.Extensions...),
		MaxPixels:      c.MaxPixels,
		TTL:            c.Cache.TTL.Duration,
	}
}

// configDir returns the config directory using XDG standard (~/.config/png2svg/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
