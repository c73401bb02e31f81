package main

import (
	"fmt"
	"io"
	"os"
	"presetd/internal"
	"presetd/internal/models"
	"presetd/internal/selector"
	"presetd/internal/services"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	matchFile  string
	matchApply bool
	matchImage string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Suggest a preset for the image metadata in a JSON file",
	Long: `Reads image metadata (iso, shutterSpeed, location, timestamp and optionally
camera, lens, aperture) and prints the suggested preset with its confidence.
With --apply the suggestion becomes the active preset, and with --image it is
also recorded for that image.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "-", "Metadata JSON file, - for stdin")
	matchCmd.Flags().BoolVar(&matchApply, "apply", false, "Activate the suggested preset")
	matchCmd.Flags().StringVar(&matchImage, "image", "", "Image id to apply the suggestion to (with --apply)")
	rootCmd.AddCommand(matchCmd)
}

func readMetadata(path string, stdin io.Reader) (models.ImageMetadata, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return models.ImageMetadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata models.ImageMetadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return models.ImageMetadata{}, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return metadata, nil
}

func runMatch(cmd *cobra.Command, args []string) error {
	metadata, err := readMetadata(matchFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	return withTools(func(t *internal.Tools) error {
		suggestion := selectPreset(t.Selector, t.Store, metadata, matchApply, matchImage)
		out, err := json.MarshalIndent(suggestion, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	})
}

// selectPreset runs a single selection. With apply the chosen preset becomes
// active and, when imageID is set, is recorded for that image.
func selectPreset(sel selector.ServiceInterface, store services.PresetStoreInterface, metadata models.ImageMetadata, apply bool, imageID string) selector.Suggestion {
	presets := store.Presets()
	if !apply {
		return sel.Suggest(metadata, presets)
	}
	return sel.Apply(metadata, presets, func(presetID string) {
		store.SetActivePresetID(presetID)
		if imageID != "" {
			store.ApplyPresetToImage(imageID, presetID)
		}
	})
}
