package main

import (
	"errors"
	"fmt"
	"presetd/internal"
	"presetd/internal/kvstore"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	exportOut        string
	exportCompressed bool
	importIn         string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a snapshot of the whole store to a file",
	Long: `Exports presets, the active preset, project defaults and image assignments.
The file is indented JSON unless --compressed is given, in which case it uses
the zstd backup format the server reads on startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return errors.New("--out is required")
		}
		return withTools(func(t *internal.Tools) error {
			snapshot := t.Store.Snapshot()
			if exportCompressed {
				if err := t.Backup.WriteSnapshot(exportOut, snapshot); err != nil {
					return fmt.Errorf("failed to write backup: %w", err)
				}
			} else {
				data, err := json.MarshalIndent(snapshot, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode snapshot: %w", err)
				}
				if err := kvstore.WriteFileAtomic(exportOut, data); err != nil {
					return fmt.Errorf("failed to write %s: %w", exportOut, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d presets to %s\n", len(snapshot.Presets), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the store contents with a backup file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if importIn == "" {
			return errors.New("--in is required")
		}
		return withTools(func(t *internal.Tools) error {
			snapshot, err := t.Backup.LoadFromFile(importIn)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", importIn, err)
			}
			t.Store.Restore(snapshot)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d presets from %s\n", len(snapshot.Presets), importIn)
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Destination file")
	exportCmd.Flags().BoolVar(&exportCompressed, "compressed", false, "Write the zstd backup format")
	importCmd.Flags().StringVarP(&importIn, "in", "i", "", "Backup file written by export --compressed or by the server")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
