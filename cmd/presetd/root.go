package main

import (
	"context"
	"fmt"
	"os"
	"presetd/internal"
	"presetd/internal/di"
	"presetd/internal/structures"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const loadTimeout = 10 * time.Second

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:   "presetd",
	Short: "Photo adjustment preset store and automatic preset selection",
	Long: `presetd keeps a library of photo adjustment presets with version history,
team sharing and per-project defaults, and suggests a preset for an image from
its capture metadata.`,
	SilenceUsage: true,
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	defaultConfig := os.Getenv("PRESETD_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", defaultConfig, "Path to the YAML config (can be set via PRESETD_CONFIG env var)")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Debug mode")
}

// withTools builds the components, loads the persisted state and runs fn.
func withTools(fn func(t *internal.Tools) error) error {
	tools, err := di.InitTools(&flags)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	defer tools.Close()

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if err := tools.Store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load presets: %w", err)
	}
	return fn(tools)
}
