package models

import "time"

const SnapshotVersion = 1

// Snapshot is the full store state: the backup file format and the CLI
// export format.
type Snapshot struct {
	Version        int               `json:"version"`
	TakenAt        time.Time         `json:"taken_at"`
	ActivePresetID string            `json:"active_preset_id,omitempty"`
	Presets        []Preset          `json:"presets"`
	ProjectDefault map[string]string `json:"project_defaults"`
	ImagePresets   map[string]string `json:"image_presets"`
}
