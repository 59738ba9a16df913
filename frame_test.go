package orthobloch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/orthobloch/bloch"
	"github.com/teranos/orthobloch/scene"
)

func presetSelection(t *testing.T, name string) bloch.Selection {
	t.Helper()
	p, ok := bloch.LookupPreset(name)
	require.True(t, ok, name)
	return bloch.FromPreset(p)
}

func TestFrame_Presets(t *testing.T) {
	opts := scene.BuildOptions{Resolution: 8}

	cases := []struct {
		preset string
		title  string
	}{
		{"|0⟩", "Inner Product ⟨0|ψ⟩ ≈ 1.00"},
		{"|1⟩", "Inner Product ⟨0|ψ⟩ ≈ -1.00"},
		{"|+⟩", "Inner Product ⟨0|ψ⟩ ≈ 0.00"},
		{"|–⟩", "Inner Product ⟨0|ψ⟩ ≈ 0.00"},
		{"|i⟩", "Inner Product ⟨0|ψ⟩ ≈ 0.00"},
		{"|–i⟩", "Inner Product ⟨0|ψ⟩ ≈ 0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.preset, func(t *testing.T) {
			s := Frame(presetSelection(t, tc.preset), opts)
			assert.Equal(t, tc.title, s.Title)
			assert.Equal(t, tc.preset, s.Labels[1].Text)
			assert.Equal(t, bloch.Reference(), s.Arrows[0].To)
		})
	}
}

func TestFrame_Explicit(t *testing.T) {
	s := Frame(bloch.Explicit(60, 45), scene.BuildOptions{Resolution: 8})
	assert.Equal(t, bloch.ExplicitLabel, s.Labels[1].Text)
	assert.InDelta(t, 0.5, s.Overlap, 1e-9)
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 0.50", s.Title)
}
