// Package cli implements the scrapbook command-line interface.
//
// Commands:
//   - pack: lay out an items file as JSON, SVG, PNG or PDF
//   - board: create and edit stored boards
//   - arrange: reorder a board interactively in the terminal
//   - serve: run the HTTP API
//   - cache: inspect and clear the layout cache
//
// All commands accept --verbose (-v) for debug logging and --config to point
// at a settings file other than $XDG_CONFIG_HOME/scrapbook/config.toml.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/internal/config"
	"github.com/matzehuels/scrapbook/pkg/board"
	"github.com/matzehuels/scrapbook/pkg/buildinfo"
	"github.com/matzehuels/scrapbook/pkg/cache"
	"github.com/matzehuels/scrapbook/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

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
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "scrapbook",
		Short:        "Scrapbook arranges media covers into responsive grids",
		Long:         `Scrapbook packs movie posters, album art, book covers and other media into rows that fill a container, and lets you reorder them by drag and drop.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/scrapbook/config.toml)")

	root.AddCommand(c.packCommand())
	root.AddCommand(c.boardCommand())
	root.AddCommand(c.arrangeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the settings file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	cc, keyer, err := cfg.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "error", err)
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

// openStore opens the configured board store.
func (c *CLI) openStore(ctx context.Context) (board.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return cfg.Store.OpenStore(ctx)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
