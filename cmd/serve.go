package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/server"
	"github.com/abhisek/pathwise/internal/workflow"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the generators and learner workflows over HTTP.

Learner endpoints identify the caller by the X-User-ID header.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.DefaultConfig()
		if addr := os.Getenv("PATHWISE_ADDR"); addr != "" {
			cfg.Addr = addr
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("rate") {
			cfg.RatePerMinute, _ = cmd.Flags().GetInt("rate")
		}
		if cmd.Flags().Changed("timeout") {
			cfg.RequestTimeout, _ = cmd.Flags().GetDuration("timeout")
		}

		d, err := buildDeps(cmd, workflow.ContextIdentity{})
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		h := server.NewHandler(d.Content, d.Workflows, d.Log)
		router := server.NewRouter(cfg, h, d.Log, d.Metrics, d.Registry)
		return server.Run(ctx, cfg, router, d.Log)
	},
}

func init() {
	defaults := server.DefaultConfig()
	serveCmd.Flags().String("addr", defaults.Addr, "Listen address (overrides PATHWISE_ADDR)")
	serveCmd.Flags().Int("rate", defaults.RatePerMinute, "Requests per minute per client IP, 0 disables")
	serveCmd.Flags().Duration("timeout", defaults.RequestTimeout, "Per-request timeout")
}
