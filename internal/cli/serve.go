package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/scrapbook/internal/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes layout and board endpoints over HTTP, plus /healthz and
Prometheus metrics on /metrics. The server shuts down gracefully on SIGINT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			server.RegisterMetrics()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			printInfo("Listening on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("cache: %s  store: %s", cfg.Cache.Backend, cfg.Store.Backend)
			return server.New(cfg, runner, store, c.Logger).ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	return cmd
}
