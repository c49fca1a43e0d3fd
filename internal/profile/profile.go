package profile

// Profile defines the parameters of one analysis run: which recompression
// sweep to trace, where to sample the localized heatmap, and how aggressive
// the auto-contrast percentile clipping is.
type Profile struct {
	Name           string
	Qualities      []int   // recompression sweep, scanned in listed order
	HeatmapQuality int     // single round-trip quality for the difference map
	ClipFraction   float64 // percentile clipped off each histogram tail
	Workers        int     // parallel sample workers (0 = NumCPU)
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {
		Name:           "default",
		Qualities:      []int{95, 90, 85, 80, 75, 70, 65, 60, 55, 50},
		HeatmapQuality: 70,
		ClipFraction:   0.01,
	},
	"deep": {
		Name: "deep",
		// Dense sweep for images whose compression history needs fine
		// quality resolution, e.g. double-compressed evidence photos.
		Qualities:      rangeDown(98, 40, 2),
		HeatmapQuality: 75,
		ClipFraction:   0.005,
	},
	"quick": {
		Name:           "quick",
		Qualities:      []int{90, 70, 50},
		HeatmapQuality: 70,
		ClipFraction:   0.02,
	},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Names lists the built-in profile names in a fixed order.
func Names() []string {
	return []string{"default", "deep", "quick"}
}

func rangeDown(from, to, step int) []int {
	var out []int
	for q := from; q >= to; q -= step {
		out = append(out, q)
	}
	return out
}
