package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/internal/cli"
	"github.com/aretw0/tracer/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "tracer",
	Short: "Tracer runs interactive algorithm visualization exercises",
	Long: `Tracer steps a learner through an algorithm one action at a time: pick the
next node, type the next value, drag the next pointer. Progress is saved per
session and can be resumed from any host.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the configuration file")
	rootCmd.PersistentFlags().String("store", "", "Session store override (memory, file, redis)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
}

// loadApp reads the configuration named by the persistent flags and builds the app.
// The caller closes it.
func loadApp(cmd *cobra.Command, mutate ...func(*config.Config)) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		cfg.Store = store
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	for _, m := range mutate {
		m(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cli.NewApp(cfg)
}
