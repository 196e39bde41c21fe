package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/tracer/internal/cli"
	"github.com/aretw0/tracer/internal/config"
)

var countCmd = &cobra.Command{
	Use:   "count <exercise>",
	Short: "Run an exercise silently and report its trace",
	Long: `Runs the exercise against --data (or data it draws itself) without a learner,
resolving every step, and prints the step count, maximum score and the playback
of each step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("data")
		data, err := cli.ParseData(raw)
		if err != nil {
			return err
		}
		var seedOverride []func(*config.Config)
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetFloat64("seed")
			seedOverride = append(seedOverride, func(c *config.Config) { c.Seed = &seed })
		}

		app, err := loadApp(cmd, seedOverride...)
		if err != nil {
			return err
		}
		defer app.Close()

		engine, err := app.NewEngine(args[0])
		if err != nil {
			return err
		}
		defer engine.Close()

		tr, err := engine.Count(cmd.Context(), data)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := json.MarshalIndent(tr, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("steps: %d\nmax score: %d\nseed: %v\n", tr.Steps, tr.MaxScore, tr.Seed)
		if tr.StartFound {
			pinned, _ := json.Marshal(tr.StartData)
			fmt.Printf("data: %s\n", pinned)
		}
		for i, d := range tr.Descriptions {
			fmt.Printf("%3d  %s\n", i, d)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(countCmd)
	countCmd.Flags().String("data", "", "JSON data payload for the exercise")
	countCmd.Flags().Float64("seed", 0, "Random seed in [0, 1)")
	countCmd.Flags().Bool("json", false, "Print the trace as JSON")
}
