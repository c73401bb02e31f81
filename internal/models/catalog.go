package models

import "time"

const catalogAuthor = "PQTR"

func catalogDate(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

// BuiltInPresets returns the starter catalog seeded into an empty store.
// Every call returns fresh values.
func BuiltInPresets() []Preset {
	return []Preset{
		{
			ID:             "1",
			Name:           "Track Day",
			Description:    "High contrast, vibrant racing shots with enhanced saturation",
			CreatedAt:      catalogDate("2024-01-15"),
			LastEdited:     catalogDate("2024-01-20"),
			Version:        2,
			SharedWithTeam: true,
			CreatedBy:      catalogAuthor,
			Settings: PresetSettings{
				Brightness: 0.1, Contrast: 0.3, Saturation: 0.4, Temperature: 0.2,
				Highlights: -0.2, Shadows: 0.3, Sharpness: 0.5, Vignette: 0.1,
			},
			PreviousVersions: []PresetVersion{{
				ID:        "1_v1",
				Version:   1,
				CreatedAt: catalogDate("2024-01-15"),
				Settings: PresetSettings{
					Contrast: 0.2, Saturation: 0.3, Temperature: 0.1,
					Highlights: -0.1, Shadows: 0.2, Sharpness: 0.4,
				},
				Changes: []string{"Initial version"},
			}},
		},
		{
			ID:          "2",
			Name:        "Neutral Film",
			Description: "Classic film look with natural tones and subtle grain",
			CreatedAt:   catalogDate("2024-01-10"),
			LastEdited:  catalogDate("2024-01-18"),
			Version:     1,
			CreatedBy:   catalogAuthor,
			Settings: PresetSettings{
				Contrast: 0.1, Saturation: -0.1, Shadows: 0.1, Sharpness: 0.2,
			},
		},
		{
			ID:             "3",
			Name:           "Aston Mono",
			Description:    "Monochrome with rich blacks and high contrast",
			CreatedAt:      catalogDate("2024-01-08"),
			LastEdited:     catalogDate("2024-01-16"),
			Version:        3,
			SharedWithTeam: true,
			CreatedBy:      catalogAuthor,
			Settings: PresetSettings{
				Contrast: 0.4, Saturation: -1.0, Highlights: -0.3, Shadows: 0.5,
				Sharpness: 0.6, Vignette: 0.2,
			},
			PreviousVersions: []PresetVersion{
				{
					ID:        "3_v1",
					Version:   1,
					CreatedAt: catalogDate("2024-01-08"),
					Settings: PresetSettings{
						Contrast: 0.3, Saturation: -1.0, Highlights: -0.2, Shadows: 0.4,
						Sharpness: 0.5, Vignette: 0.1,
					},
					Changes: []string{"Initial version"},
				},
				{
					ID:        "3_v2",
					Version:   2,
					CreatedAt: catalogDate("2024-01-12"),
					Settings: PresetSettings{
						Contrast: 0.35, Saturation: -1.0, Highlights: -0.25, Shadows: 0.45,
						Sharpness: 0.55, Vignette: 0.15,
					},
					Changes: []string{"Enhanced contrast and sharpness"},
				},
			},
		},
		{
			ID:          "4",
			Name:        "Sunset Glow",
			Description: "Warm, golden hour aesthetics with enhanced warmth",
			CreatedAt:   catalogDate("2024-01-05"),
			LastEdited:  catalogDate("2024-01-14"),
			Version:     1,
			CreatedBy:   catalogAuthor,
			Settings: PresetSettings{
				Brightness: 0.1, Contrast: 0.1, Saturation: 0.2, Temperature: 0.4,
				Tint: 0.1, Highlights: 0.2, Shadows: 0.1, Sharpness: 0.3,
			},
		},
		{
			ID:             "5",
			Name:           "Urban Edge",
			Description:    "Sharp, modern city photography with enhanced clarity",
			CreatedAt:      catalogDate("2024-01-03"),
			LastEdited:     catalogDate("2024-01-11"),
			Version:        2,
			SharedWithTeam: true,
			CreatedBy:      catalogAuthor,
			Settings: PresetSettings{
				Contrast: 0.2, Saturation: 0.1, Highlights: 0.1, Shadows: 0.2,
				Sharpness: 0.7, Vignette: 0.1,
			},
			PreviousVersions: []PresetVersion{{
				ID:        "5_v1",
				Version:   1,
				CreatedAt: catalogDate("2024-01-03"),
				Settings: PresetSettings{
					Contrast: 0.15, Saturation: 0.05, Highlights: 0.05, Shadows: 0.15,
					Sharpness: 0.6, Vignette: 0.05,
				},
				Changes: []string{"Initial version"},
			}},
		},
		{
			ID:             "6",
			Name:           "Portrait Pro",
			Description:    "Professional portrait enhancement with skin smoothing",
			CreatedAt:      catalogDate("2024-01-01"),
			LastEdited:     catalogDate("2024-01-09"),
			Version:        1,
			SharedWithTeam: true,
			CreatedBy:      catalogAuthor,
			Settings: PresetSettings{
				Brightness: 0.05, Contrast: 0.1, Saturation: -0.1, Temperature: 0.1,
				Highlights: 0.1, Shadows: 0.2, Sharpness: 0.4,
			},
		},
	}
}
