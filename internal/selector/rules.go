package selector

// Rule maps a metadata predicate to a preset family. A rule resolves to the
// first preset whose name contains Name or whose description contains
// Description, both compared case-insensitively.
type Rule struct {
	ID          string
	Name        string
	Priority    int
	Description string
	Conditions  func(Facts) bool
}

func (r Rule) Matches(f Facts) bool {
	return r.Conditions != nil && r.Conditions(f)
}

// DefaultRules returns the built-in rule table, highest priority first.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "track-day",
			Name:        "Track Day",
			Priority:    10,
			Description: "High contrast, vibrant racing shots",
			Conditions: func(f Facts) bool {
				return f.LocationHas("pit", "track", "race") &&
					(f.ISO > 800 || f.HourBetween(6, 18))
			},
		},
		{
			ID:          "night-shooter",
			Name:        "Night Shooter",
			Priority:    9,
			Description: "Optimized for low-light night photography",
			Conditions: func(f Facts) bool {
				return (f.HourBefore(6) || f.HourAfter(20)) &&
					(f.ShutterSpeed < 1.0/60 || f.ISO > 1600)
			},
		},
		{
			ID:          "portrait-pro",
			Name:        "Portrait Pro",
			Priority:    8,
			Description: "Professional portrait enhancement",
			Conditions: func(f Facts) bool {
				return f.LocationHas("studio", "portrait", "headshot") && f.WideAperture(2.8)
			},
		},
		{
			ID:          "landscape-master",
			Name:        "Landscape Master",
			Priority:    7,
			Description: "Natural landscape photography",
			Conditions: func(f Facts) bool {
				return f.LocationHas("mountain", "forest", "beach", "park") && f.HourBetween(6, 18)
			},
		},
		{
			ID:          "urban-edge",
			Name:        "Urban Edge",
			Priority:    6,
			Description: "Sharp, modern city photography",
			Conditions: func(f Facts) bool {
				return f.LocationHas("city", "urban", "street", "building") && f.HourBetween(8, 20)
			},
		},
		{
			ID:          "vintage-film",
			Name:        "Vintage Film",
			Priority:    5,
			Description: "Classic film look with natural tones",
			Conditions: func(f Facts) bool {
				return f.ISO <= 400 || f.CameraHas("film", "analog")
			},
		},
		{
			ID:          "sunset-glow",
			Name:        "Sunset Glow",
			Priority:    4,
			Description: "Warm, golden hour aesthetics",
			Conditions: func(f Facts) bool {
				return (f.HourBetween(16, 19) || f.HourBetween(5, 8)) &&
					f.LocationHas("beach", "mountain", "park")
			},
		},
		{
			ID:          "monochrome",
			Name:        "Aston Mono",
			Priority:    3,
			Description: "Monochrome with rich blacks",
			Conditions: func(f Facts) bool {
				return f.LocationHas("street", "architecture", "portrait") && f.HourBetween(10, 16)
			},
		},
	}
}
