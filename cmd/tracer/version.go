package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tracer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tracer version %s\n", strings.TrimSpace(tracer.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
