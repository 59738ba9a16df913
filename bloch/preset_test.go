package bloch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_Table(t *testing.T) {
	ps := Presets()
	require.Len(t, ps, 6)

	labels := make([]string, 0, len(ps))
	for _, p := range ps {
		labels = append(labels, p.Label)
	}
	assert.Equal(t, []string{"|0⟩", "|1⟩", "|+⟩", "|–⟩", "|i⟩", "|–i⟩"}, labels)

	// callers cannot mutate the table
	ps[0].ThetaDeg = 42
	assert.Equal(t, 0.0, Presets()[0].ThetaDeg)
}

func TestPresets_Geometry(t *testing.T) {
	zero, _ := LookupPreset("|0⟩")
	one, _ := LookupPreset("|1⟩")
	plus, _ := LookupPreset("|+⟩")
	minus, _ := LookupPreset("|–⟩")
	i, _ := LookupPreset("|i⟩")
	minusI, _ := LookupPreset("|–i⟩")

	assert.InDelta(t, -1.0, zero.Vector().Dot(one.Vector()), tol)
	assert.InDelta(t, 0.0, Reference().Dot(plus.Vector()), tol)
	assert.InDelta(t, -1.0, plus.Vector().Dot(minus.Vector()), tol)
	assert.InDelta(t, -1.0, i.Vector().Dot(minusI.Vector()), tol)
	assert.InDelta(t, 0.0, plus.Vector().Dot(i.Vector()), tol)
	assertVector(t, Vector{0, -1, 0}, minusI.Vector())
}

func TestLookupPreset(t *testing.T) {
	cases := map[string]string{
		"|0⟩":  "|0⟩",
		"0":    "|0⟩",
		" 1 ":  "|1⟩",
		"+":    "|+⟩",
		"-":    "|–⟩",
		"|-⟩":  "|–⟩",
		"i":    "|i⟩",
		"-i":   "|–i⟩",
		"|-i⟩": "|–i⟩",
	}
	for name, label := range cases {
		p, ok := LookupPreset(name)
		if assert.True(t, ok, name) {
			assert.Equal(t, label, p.Label, name)
		}
	}

	_, ok := LookupPreset("|2⟩")
	assert.False(t, ok)
}
