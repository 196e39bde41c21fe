package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/internal/cli"
)

var diagramCmd = &cobra.Command{
	Use:   "diagram <session-id>",
	Short: "Print a Mermaid diagram of a session's structures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		out, err := cli.Diagram(cmd.Context(), app, args[0])
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagramCmd)
}
