package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/pkg/exercises"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available exercises",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, e := range exercises.Default().Entries() {
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
