package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run <exercise>",
	Short: "Run an exercise interactively",
	Long: `Starts the exercise in the terminal. With --session an existing session is
resumed at its last resolved step; otherwise a new session is created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("data")
		data, err := cli.ParseData(raw)
		if err != nil {
			return err
		}
		sessionID, _ := cmd.Flags().GetString("session")
		board, _ := cmd.Flags().GetBool("trace")
		quiet, _ := cmd.Flags().GetBool("quiet")

		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunSession(cmd.Context(), app, cli.RunOptions{
			Exercise:  args[0],
			SessionID: sessionID,
			Data:      data,
			Board:     board,
			Quiet:     quiet,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session ID to create or resume")
	runCmd.Flags().String("data", "", "JSON data payload for a new session")
	runCmd.Flags().Bool("trace", false, "Print structural changes as they happen")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner and system messages")
}
