package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/png2svg/pkg/buildinfo"
	"github.com/matzehuels/png2svg/pkg/cache"
	pkgerr "github.com/matzehuels/png2svg/pkg/errors"
	"github.com/matzehuels/png2svg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "png2svg"

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
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running the root command without a subcommand converts its path argument.
func (c *CLI) RootCommand() *cobra.Command {
	opts := convertOpts{}

	root := &cobra.Command{
		Use:   "png2svg [path]",
		Short: "png2svg traces raster images into SVG documents",
		Long: `png2svg converts raster images into SVG documents made of one filled path
per contiguous colour region. Every pixel edge is kept, so the output
reproduces the input exactly at any zoom level.

With no arguments the current directory is converted.`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, &opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/png2svg/config.toml)")
	addConvertFlags(root, &opts)

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. The returned cache must be
// closed by the caller.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, cache.Cache, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), store, nil
}

// newCache picks the cache backend from the configuration: Redis when a URL
// is set, otherwise the local file cache. An unusable backend disables
// caching rather than failing the run.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cfg := c.config.Cache
	if noCache || !cfg.Enabled {
		return cache.NewNullCache(), nil, nil
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, nil, pkgerr.Wrap(pkgerr.ErrCodeInvalidConfig, err, "cache.redis_url")
		}
		if err := rc.Ping(ctx); err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "err", err)
			_ = rc.Close()
			return cache.NewNullCache(), nil, nil
		}
		return rc, cache.NewScopedKeyer(nil, cfg.KeyPrefix), nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil, nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache directory unavailable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil, nil
	}
	return fc, nil, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/png2svg/).
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
