package selector

import (
	"presetd/internal/models"
	"strings"
	"time"
)

// Facts is image metadata reduced to what the rules look at. Text fields are
// lower-cased and the capture hour is resolved once per evaluation.
type Facts struct {
	Location     string
	Camera       string
	ISO          float64
	ShutterSpeed float64
	Aperture     *float64
	Hour         int
	HasHour      bool
}

func NewFacts(m models.ImageMetadata, loc *time.Location) Facts {
	hour, ok := m.CaptureHour(loc)
	return Facts{
		Location:     strings.ToLower(m.Location),
		Camera:       strings.ToLower(m.Camera),
		ISO:          m.ISO,
		ShutterSpeed: m.ShutterSpeed,
		Aperture:     m.Aperture,
		Hour:         hour,
		HasHour:      ok,
	}
}

// HourBetween reports whether the capture hour lies in [from, to]. It is false
// when the timestamp could not be parsed.
func (f Facts) HourBetween(from, to int) bool {
	return f.HasHour && f.Hour >= from && f.Hour <= to
}

func (f Facts) HourBefore(h int) bool {
	return f.HasHour && f.Hour < h
}

func (f Facts) HourAfter(h int) bool {
	return f.HasHour && f.Hour > h
}

func (f Facts) LocationHas(words ...string) bool {
	return containsAny(f.Location, words)
}

func (f Facts) CameraHas(words ...string) bool {
	return containsAny(f.Camera, words)
}

// WideAperture reports an aperture that is set, non-zero and below limit.
func (f Facts) WideAperture(limit float64) bool {
	return f.Aperture != nil && *f.Aperture != 0 && *f.Aperture < limit
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
