package main

import (
	"fmt"
	"presetd/internal"
	"presetd/internal/models"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install the built-in preset catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTools(func(t *internal.Tools) error {
			n := t.Store.Seed(models.BuiltInPresets())
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Store already holds %d presets, nothing seeded\n", len(t.Store.Presets()))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d presets\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
