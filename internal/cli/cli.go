package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/buildinfo"
	"github.com/matzehuels/dirgraph/pkg/cache"
	"github.com/matzehuels/dirgraph/pkg/config"
	"github.com/matzehuels/dirgraph/pkg/imports"
	"github.com/matzehuels/dirgraph/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "dirgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string // --config; empty means discover
	configFrom string // file the config was loaded from, "" for defaults
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dirgraph maps the import graph of a source tree",
		Long: `dirgraph scans a project for relative and aliased imports, builds the
file-level dependency graph and draws it nested inside the directory tree.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./dirgraph.toml, then the user config dir)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.neighborsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or discovers a config file.
func (c *CLI) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Load(c.configPath)
		if err != nil {
			return err
		}
		c.Config, c.configFrom = cfg, c.configPath
	} else {
		cfg, from, err := config.Discover()
		if err != nil {
			return err
		}
		c.Config, c.configFrom = cfg, from
	}
	if c.configFrom != "" {
		c.Logger.Debug("loaded config", "path", c.configFrom)
	}
	return nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.Config
	if noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	ch, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return pipeline.NewRunner(ch, nil, imports.New(cfg.Resolve), c.Logger), nil
}

// sourceCache is the cache GitHub fetches go through; refresh bypasses it.
func sourceCache(r *pipeline.Runner, refresh bool) cache.Cache {
	if refresh {
		return nil
	}
	return r.Cache
}
