package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/orthobloch/bloch"
)

func preset(t *testing.T, name string) bloch.Vector {
	t.Helper()
	p, ok := bloch.LookupPreset(name)
	require.True(t, ok, name)
	return p.Vector()
}

func TestBuild_Layout(t *testing.T) {
	ref := bloch.Reference()
	target := bloch.FromAngles(math.Pi/3, math.Pi/4)
	s := Build(ref, target, "|ψ⟩")

	assert.Len(t, s.Sphere.Points, DefaultResolution)
	assert.Len(t, s.Sphere.Points[0], DefaultResolution)
	assert.Equal(t, LightBlue, s.Sphere.Color)
	assert.Equal(t, 0.1, s.Sphere.Alpha)

	require.Len(t, s.Axes, 3)
	for _, a := range s.Axes {
		assert.Equal(t, Gray, a.Color)
		assert.Equal(t, 0.5, a.Width)
		assert.InDelta(t, 1.0, a.To.Len(), 1e-12)
	}

	require.Len(t, s.Arrows, 2)
	assert.Equal(t, ref, s.Arrows[0].To)
	assert.Equal(t, Blue, s.Arrows[0].Color)
	assert.Equal(t, target, s.Arrows[1].To)
	assert.Equal(t, Red, s.Arrows[1].Color)

	require.GreaterOrEqual(t, len(s.Labels), 2)
	assert.Equal(t, ReferenceLabel, s.Labels[0].Text)
	assert.Equal(t, ref.Scale(1.1), s.Labels[0].At)
	assert.Equal(t, "|ψ⟩", s.Labels[1].Text)
	assert.Equal(t, target.Scale(1.1), s.Labels[1].At)

	assert.Equal(t, Bounds{Min: -1, Max: 1}, s.Bounds)
}

func TestBuild_Overlap(t *testing.T) {
	ref := bloch.Reference()

	s := Build(ref, preset(t, "|+⟩"), "|+⟩")
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 0.00", s.Title)

	s = Build(preset(t, "|0⟩"), preset(t, "|1⟩"), "|1⟩")
	assert.InDelta(t, -1.0, s.Overlap, 1e-9)
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ -1.00", s.Title)

	s = Build(ref, bloch.FromAngles(0, 1.3), "|ψ⟩")
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 1.00", s.Title)
}

// A non-unit target still builds; the overlap is just the raw dot product.
func TestBuild_NonUnitTarget(t *testing.T) {
	s := Build(bloch.Reference(), bloch.Vector{Z: 2}, "big")
	assert.InDelta(t, 2.0, s.Overlap, 1e-12)
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 2.00", s.Title)
}

func TestFormatTitle(t *testing.T) {
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 0.50", FormatTitle(0.5))
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 0.00", FormatTitle(-1e-17))
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ 0.00", FormatTitle(-0.004))
	assert.Equal(t, "Inner Product ⟨0|ψ⟩ ≈ -0.71", FormatTitle(-math.Sqrt2/2))
}

func TestSphereMesh(t *testing.T) {
	m := SphereMesh(12)
	require.Len(t, m.Points, 12)
	for _, row := range m.Points {
		require.Len(t, row, 12)
		for _, p := range row {
			assert.InDelta(t, 1.0, p.Len(), 1e-12)
		}
		assert.InDelta(t, 1.0, row[0].Z, 1e-12)
		assert.InDelta(t, -1.0, row[11].Z, 1e-12)
	}

	assert.Len(t, SphereMesh(0).Points, 2)
}

func TestCamera_Project(t *testing.T) {
	c := DefaultCamera()

	x, y, depth := c.Project(bloch.Vector{Z: 1})
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, math.Cos(math.Pi/6), y, 1e-12)
	assert.InDelta(t, 0.5, depth, 1e-12)

	x, _, _ = c.Project(bloch.Vector{X: 1})
	assert.InDelta(t, math.Sin(math.Pi/3), x, 1e-12)

	lit := Camera{Elevation: 30, Azimuth: -60}
	lx, ly, ld := lit.Project(bloch.Vector{X: 0.2, Y: -0.4, Z: 0.7})
	ex, ey, ed := c.Project(bloch.Vector{X: 0.2, Y: -0.4, Z: 0.7})
	assert.InDelta(t, ex, lx, 1e-12)
	assert.InDelta(t, ey, ly, 1e-12)
	assert.InDelta(t, ed, ld, 1e-12)
}
