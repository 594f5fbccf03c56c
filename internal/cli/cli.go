// Package cli implements the pathprobe command-line interface.
//
// This package provides commands for parsing OSPF link-state database dumps
// into structured JSON, rendering topology graphs in several formats,
// serving a live HTML preview, and managing snapshots and the pipeline
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Extract LSA records from a link-state database text dump
//   - render: Generate HTML, DOT, SVG, PNG, or JSON topology outputs
//   - run: Parse and render in one step
//   - serve: Serve the rendered topology over HTTP for live preview
//   - snapshot: Archive and inspect parsed databases
//   - cache: Manage the pipeline cache
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pathprobe/pathprobe/pkg/buildinfo"
	"github.com/pathprobe/pathprobe/pkg/cache"
	"github.com/pathprobe/pathprobe/pkg/pipeline"
	"github.com/pathprobe/pathprobe/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "pathprobe"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "PathProbe turns OSPF link-state dumps into topology graphs",
		Long:         `PathProbe is a CLI tool for parsing OSPF link-state database text dumps into structured JSON and rendering the routing topology as interactive HTML graphs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pathprobe/config.toml)")

	// Register all subcommands
	root.AddCommand(c.parseCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(cmd, noCache), nil, c.Logger)
}

func (c *CLI) newCache(cmd *cobra.Command, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Backend == "none" {
		return cache.NewNullCache()
	}
	if c.Config.Cache.Backend == "redis" {
		rc, err := cache.NewRedisCache(cmd.Context(), c.Config.Cache.RedisURL)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, falling back to file cache", "err", err)
		} else {
			return rc
		}
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// newStore creates the configured snapshot store.
func (c *CLI) newStore(cmd *cobra.Command) (store.Store, error) {
	if c.Config.Store.Backend == "mongo" {
		return store.NewMongoStore(cmd.Context(), store.MongoConfig{
			URI:        c.Config.Store.MongoURI,
			Database:   c.Config.Store.MongoDatabase,
			Collection: c.Config.Store.MongoCollection,
		})
	}
	return store.NewFileStore("")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pathprobe/).
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

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options seeded from the config file.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Height:  c.Config.Render.Height,
		Width:   c.Config.Render.Width,
		Physics: c.Config.Render.Physics,
		Logger:  c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHTML}
	}
	return strings.Split(s, ",")
}
