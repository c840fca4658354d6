package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/server"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Analyses posted to /api/v1/analyses are saved in the configured store
(in memory or MongoDB) and can be fetched, rendered and queried for
neighbors afterwards. The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()

			srv := server.New(server.Config{
				Addr:              cfg.Server.Addr,
				MaxBodyBytes:      cfg.Server.MaxBodyBytes,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Duration,
				ShutdownTimeout:   cfg.Server.ShutdownTimeout.Duration,
				Limits:            cfg.Limits,
			}, runner, st, c.Logger)

			c.Logger.Info("serving", "addr", cfg.Server.Addr, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
