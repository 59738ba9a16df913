package bloch

// ExplicitLabel is shown for a target set from raw angles.
const ExplicitLabel = "|ψ⟩"

// Selection is the single source of truth for the target state: either a
// preset or an explicit (θ, φ) pair in degrees. It is a value; changing an
// angle yields a new explicit Selection and drops any preset tag.
type Selection struct {
	preset   string
	thetaDeg float64
	phiDeg   float64
}

// Explicit selects raw angles in degrees.
func Explicit(thetaDeg, phiDeg float64) Selection {
	return Selection{thetaDeg: thetaDeg, phiDeg: phiDeg}
}

// FromPreset selects a preset; its angles become the current angles.
func FromPreset(p Preset) Selection {
	return Selection{preset: p.Label, thetaDeg: p.ThetaDeg, phiDeg: p.PhiDeg}
}

// Preset reports the preset tag, if the selection came from one.
func (s Selection) Preset() (string, bool) {
	return s.preset, s.preset != ""
}

// ThetaDeg and PhiDeg return the current angles in degrees.
func (s Selection) ThetaDeg() float64 { return s.thetaDeg }
func (s Selection) PhiDeg() float64   { return s.phiDeg }

// WithTheta returns an explicit selection with theta replaced.
func (s Selection) WithTheta(thetaDeg float64) Selection {
	return Explicit(thetaDeg, s.phiDeg)
}

// WithPhi returns an explicit selection with phi replaced.
func (s Selection) WithPhi(phiDeg float64) Selection {
	return Explicit(s.thetaDeg, phiDeg)
}

// Label is the annotation drawn next to the target arrow.
func (s Selection) Label() string {
	if s.preset != "" {
		return s.preset
	}
	return ExplicitLabel
}

// Angles returns the selection in radians.
func (s Selection) Angles() Angles {
	return Degrees(s.thetaDeg, s.phiDeg)
}

// Vector resolves the target state on the sphere.
func (s Selection) Vector() Vector {
	return s.Angles().Vector()
}
