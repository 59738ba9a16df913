package bloch

import "strings"

// Preset is a named canonical state with its angles in degrees.
type Preset struct {
	Label    string
	Alias    string // ASCII name accepted on the command line
	ThetaDeg float64
	PhiDeg   float64
}

// Angles returns the preset's angles in radians.
func (p Preset) Angles() Angles {
	return Degrees(p.ThetaDeg, p.PhiDeg)
}

// Vector returns the preset's point on the sphere.
func (p Preset) Vector() Vector {
	return p.Angles().Vector()
}

var presets = []Preset{
	{Label: "|0⟩", Alias: "0", ThetaDeg: 0, PhiDeg: 0},
	{Label: "|1⟩", Alias: "1", ThetaDeg: 180, PhiDeg: 0},
	{Label: "|+⟩", Alias: "+", ThetaDeg: 90, PhiDeg: 0},
	{Label: "|–⟩", Alias: "-", ThetaDeg: 90, PhiDeg: 180},
	{Label: "|i⟩", Alias: "i", ThetaDeg: 90, PhiDeg: 90},
	{Label: "|–i⟩", Alias: "-i", ThetaDeg: 90, PhiDeg: 270},
}

// Presets returns the six canonical basis and superposition states in
// display order. The slice is a copy.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by its label or ASCII alias. The ASCII
// hyphen is accepted in place of the en dash used in the labels.
func LookupPreset(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	normalized := strings.ReplaceAll(name, "-", "–")
	for _, p := range presets {
		if p.Label == name || p.Label == normalized || p.Alias == name {
			return p, true
		}
	}
	return Preset{}, false
}
