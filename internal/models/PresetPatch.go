package models

import "time"

// PresetPatch is a partial preset update. Nil fields are left untouched.
// The id is deliberately absent: preset ids never change once assigned.
type PresetPatch struct {
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	ThumbnailURI     *string          `json:"thumbnailUri,omitempty"`
	CreatedAt        *time.Time       `json:"createdAt,omitempty"`
	LastEdited       *time.Time       `json:"lastEdited,omitempty"`
	Version          *int             `json:"version,omitempty"`
	SharedWithTeam   *bool            `json:"sharedWithTeam,omitempty"`
	CreatedBy        *string          `json:"createdBy,omitempty"`
	AppliedCount     *int             `json:"appliedCount,omitempty"`
	IsActive         *bool            `json:"isActive,omitempty"`
	PreviousVersions *[]PresetVersion `json:"previousVersions,omitempty"`
	Settings         *PresetSettings  `json:"settings,omitempty"`
}

// Apply shallow-merges the set fields into p and returns the result.
func (pp PresetPatch) Apply(p Preset) Preset {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Description != nil {
		p.Description = *pp.Description
	}
	if pp.ThumbnailURI != nil {
		p.ThumbnailURI = *pp.ThumbnailURI
	}
	if pp.CreatedAt != nil {
		p.CreatedAt = *pp.CreatedAt
	}
	if pp.LastEdited != nil {
		p.LastEdited = *pp.LastEdited
	}
	if pp.Version != nil {
		p.Version = *pp.Version
	}
	if pp.SharedWithTeam != nil {
		p.SharedWithTeam = *pp.SharedWithTeam
	}
	if pp.CreatedBy != nil {
		p.CreatedBy = *pp.CreatedBy
	}
	if pp.AppliedCount != nil {
		p.AppliedCount = *pp.AppliedCount
	}
	if pp.IsActive != nil {
		p.IsActive = *pp.IsActive
	}
	if pp.PreviousVersions != nil {
		p.PreviousVersions = Preset{PreviousVersions: *pp.PreviousVersions}.Clone().PreviousVersions
	}
	if pp.Settings != nil {
		p.Settings = *pp.Settings
	}
	return p
}

// IsEmpty reports whether the patch would change nothing.
func (pp PresetPatch) IsEmpty() bool {
	return pp == PresetPatch{}
}
