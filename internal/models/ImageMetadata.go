package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

var ErrMissingMetadata = errors.New("missing required metadata")

// ImageMetadata is the capture metadata of a single image, as delivered by
// the ingestion side. Camera, Lens and Aperture are optional.
type ImageMetadata struct {
	ISO          float64  `json:"iso"`
	ShutterSpeed float64  `json:"shutterSpeed"`
	Location     string   `json:"location"`
	Timestamp    string   `json:"timestamp"`
	Camera       string   `json:"camera,omitempty"`
	Lens         string   `json:"lens,omitempty"`
	Aperture     *float64 `json:"aperture,omitempty"`
}

type imageMetadataJSON struct {
	ISO          *float64 `json:"iso"`
	ShutterSpeed *float64 `json:"shutterSpeed"`
	Location     string   `json:"location"`
	Timestamp    string   `json:"timestamp"`
	Camera       string   `json:"camera"`
	Lens         string   `json:"lens"`
	Aperture     *float64 `json:"aperture"`
}

// UnmarshalJSON rejects documents without iso or shutterSpeed. A zero would
// satisfy the low-ISO and slow-shutter rules.
func (m *ImageMetadata) UnmarshalJSON(data []byte) error {
	var raw imageMetadataJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ISO == nil {
		return fmt.Errorf("%w: iso", ErrMissingMetadata)
	}
	if raw.ShutterSpeed == nil {
		return fmt.Errorf("%w: shutterSpeed", ErrMissingMetadata)
	}
	*m = ImageMetadata{
		ISO:          *raw.ISO,
		ShutterSpeed: *raw.ShutterSpeed,
		Location:     raw.Location,
		Timestamp:    raw.Timestamp,
		Camera:       raw.Camera,
		Lens:         raw.Lens,
		Aperture:     raw.Aperture,
	}
	return nil
}

// Offset-less layouts are read in the caller's location; date-only values are
// UTC midnight, which is how browsers parse them too.
var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999Z0700",
		"2006-01-02T15:04Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
	}
)

// CaptureTime parses Timestamp and converts it to loc. A nil loc means
// time.Local.
func (m ImageMetadata) CaptureTime(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	ts := strings.TrimSpace(m.Timestamp)
	if ts == "" {
		return time.Time{}, false
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.In(loc), true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, ts, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, ts); err == nil {
		return t.In(loc), true
	}
	return time.Time{}, false
}

// CaptureHour is the wall-clock hour of the capture in loc.
func (m ImageMetadata) CaptureHour(loc *time.Location) (int, bool) {
	t, ok := m.CaptureTime(loc)
	if !ok {
		return 0, false
	}
	return t.Hour(), true
}
