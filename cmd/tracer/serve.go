package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/internal/cli"
	"github.com/aretw0/tracer/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the exercise catalog and learner sessions as a JSON API, with server-sent events and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var overrides []func(*config.Config)
		if cmd.Flags().Changed("addr") {
			addr, _ := cmd.Flags().GetString("addr")
			overrides = append(overrides, func(c *config.Config) { c.HTTP.Addr = addr })
		}
		if cmd.Flags().Changed("metrics") {
			metrics, _ := cmd.Flags().GetBool("metrics")
			overrides = append(overrides, func(c *config.Config) { c.Metrics = metrics })
		}

		app, err := loadApp(cmd, overrides...)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return cli.Serve(ctx, app, app.Config.HTTP.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}
