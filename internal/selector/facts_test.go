package selector

import (
	"math"
	"presetd/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewFacts_LowerCasesText(t *testing.T) {
	f := NewFacts(models.ImageMetadata{
		Location:  "Silverstone PIT Lane",
		Camera:    "Leica M6 Film",
		Timestamp: "2024-06-01T14:00:00Z",
	}, time.UTC)

	assert.Equal(t, "silverstone pit lane", f.Location)
	assert.Equal(t, "leica m6 film", f.Camera)
	assert.True(t, f.HasHour)
	assert.Equal(t, 14, f.Hour)
}

func TestFacts_HourPredicatesNeedAHour(t *testing.T) {
	f := NewFacts(models.ImageMetadata{Timestamp: "yesterday"}, time.UTC)

	assert.False(t, f.HasHour)
	assert.False(t, f.HourBetween(0, 23))
	assert.False(t, f.HourBefore(24))
	assert.False(t, f.HourAfter(-1))
}

func TestFacts_HourBetweenIsInclusive(t *testing.T) {
	f := Facts{Hour: 18, HasHour: true}
	assert.True(t, f.HourBetween(6, 18))
	assert.True(t, f.HourBetween(18, 20))
	assert.False(t, f.HourBetween(6, 17))
}

func TestFacts_WideAperture(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	assert.False(t, Facts{}.WideAperture(2.8), "unset")
	assert.False(t, Facts{Aperture: ptr(0)}.WideAperture(2.8), "zero")
	assert.False(t, Facts{Aperture: ptr(2.8)}.WideAperture(2.8), "at limit")
	assert.False(t, Facts{Aperture: ptr(math.NaN())}.WideAperture(2.8), "NaN")
	assert.True(t, Facts{Aperture: ptr(1.4)}.WideAperture(2.8))
}

func TestFacts_LocationAndCamera(t *testing.T) {
	f := Facts{Location: "city centre", Camera: ""}
	assert.True(t, f.LocationHas("mountain", "city"))
	assert.False(t, f.LocationHas("beach"))
	assert.False(t, f.CameraHas("film", "analog"))
}
