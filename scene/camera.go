package scene

import (
	"math"

	"github.com/teranos/orthobloch/bloch"
)

// Camera is an orthographic view of the scene. Elevation and Azimuth are in
// degrees, with the same meaning as a matplotlib 3D axes view.
type Camera struct {
	Elevation float64
	Azimuth   float64

	right, up, toward bloch.Vector
}

// DefaultCamera looks at the sphere from 30° above the XY plane, rotated
// -60° about Z.
func DefaultCamera() Camera {
	return NewCamera(30, -60)
}

// NewCamera precomputes the view basis.
func NewCamera(elevation, azimuth float64) Camera {
	e := elevation * math.Pi / 180
	a := azimuth * math.Pi / 180
	se, ce := math.Sincos(e)
	sa, ca := math.Sincos(a)
	return Camera{
		Elevation: elevation,
		Azimuth:   azimuth,
		right:     bloch.Vector{X: -sa, Y: ca},
		up:        bloch.Vector{X: -se * ca, Y: -se * sa, Z: ce},
		toward:    bloch.Vector{X: ce * ca, Y: ce * sa, Z: se},
	}
}

// Project returns screen coordinates (x right, y up) and the depth towards
// the viewer. A Camera written as a literal computes its basis on demand.
func (c Camera) Project(p bloch.Vector) (x, y, depth float64) {
	if c.right == (bloch.Vector{}) {
		c = NewCamera(c.Elevation, c.Azimuth)
	}
	return p.Dot(c.right), p.Dot(c.up), p.Dot(c.toward)
}
