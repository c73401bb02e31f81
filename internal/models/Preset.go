package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrPresetNotFound = errors.New("preset not found")

// PresetSettings holds the adjustment knobs of a preset. Values are opaque to
// this package; the UI keeps them within [-100, 100] but nothing enforces it.
type PresetSettings struct {
	Brightness  float64 `json:"brightness"`
	Contrast    float64 `json:"contrast"`
	Saturation  float64 `json:"saturation"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Highlights  float64 `json:"highlights"`
	Shadows     float64 `json:"shadows"`
	Sharpness   float64 `json:"sharpness"`
	Vignette    float64 `json:"vignette"`
}

// PresetVersion is an immutable snapshot of a settings state that was replaced.
type PresetVersion struct {
	ID        string         `json:"id"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	Settings  PresetSettings `json:"settings"`
	Changes   []string       `json:"changes"`
}

type Preset struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	ThumbnailURI     string          `json:"thumbnailUri"`
	CreatedAt        time.Time       `json:"createdAt"`
	LastEdited       time.Time       `json:"lastEdited"`
	Version          int             `json:"version"`
	SharedWithTeam   bool            `json:"sharedWithTeam"`
	CreatedBy        string          `json:"createdBy"`
	AppliedCount     int             `json:"appliedCount"`
	IsActive         bool            `json:"isActive"`
	PreviousVersions []PresetVersion `json:"previousVersions,omitempty"`
	Settings         PresetSettings  `json:"settings"`
}

// VersionID returns the history id used when the preset's current state at
// the given version is moved into PreviousVersions.
func VersionID(presetID string, version int) string {
	return fmt.Sprintf("%s_v%d", presetID, version)
}

// Clone returns a copy that shares no slices with p.
func (p Preset) Clone() Preset {
	if p.PreviousVersions == nil {
		return p
	}
	history := make([]PresetVersion, len(p.PreviousVersions))
	for i, v := range p.PreviousVersions {
		history[i] = v.clone()
	}
	p.PreviousVersions = history
	return p
}

// FindVersion looks up a history entry by its id.
func (p Preset) FindVersion(versionID string) (PresetVersion, bool) {
	for _, v := range p.PreviousVersions {
		if v.ID == versionID {
			return v, true
		}
	}
	return PresetVersion{}, false
}

// Snapshot captures the current settings state as a history entry.
func (p Preset) Snapshot(changes []string) PresetVersion {
	if changes == nil {
		changes = []string{}
	}
	return PresetVersion{
		ID:        VersionID(p.ID, p.Version),
		Version:   p.Version,
		CreatedAt: p.LastEdited,
		Settings:  p.Settings,
		Changes:   changes,
	}
}

func (v PresetVersion) clone() PresetVersion {
	if v.Changes != nil {
		changes := make([]string, len(v.Changes))
		copy(changes, v.Changes)
		v.Changes = changes
	}
	return v
}
