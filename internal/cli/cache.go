package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/internal/config"
	"github.com/matzehuels/scrapbook/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached layouts and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			cc, _, err := cfg.Cache.OpenCache(ctx)
			if err != nil {
				return err
			}
			defer cc.Close()

			cl, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("The %s cache backend cannot be cleared", cfg.Cache.Backend)
				return nil
			}
			if err := cl.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			if cfg.Cache.Backend == config.BackendFile {
				dir, err := cacheDir(cfg.Cache)
				if err == nil {
					printDetail("Directory: %s", dir)
				}
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory.
func cacheDir(cc config.CacheConfig) (string, error) {
	if cc.Dir != "" {
		return cc.Dir, nil
	}
	return config.CacheDir()
}
