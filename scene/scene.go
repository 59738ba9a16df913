// Package scene turns a reference and a target state into a static 3D scene
// of the Bloch sphere and draws it onto a rendering surface.
//
// Build is a pure function of its three inputs. A Scene carries everything a
// surface needs: the sphere mesh, the basis axes, the two state arrows, the
// text labels, the fixed bounds and the title. Surfaces (Raster, Terminal)
// only project and draw; they never recompute geometry.
package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/teranos/orthobloch/bloch"
)

// ReferenceLabel annotates the fixed reference arrow.
const ReferenceLabel = "|0⟩"

// DefaultResolution matches a 100×100 parametric grid over the sphere.
const DefaultResolution = 100

var (
	LightBlue = color.RGBA{173, 216, 230, 255}
	Gray      = color.RGBA{128, 128, 128, 255}
	Blue      = color.RGBA{0, 0, 255, 255}
	Red       = color.RGBA{255, 0, 0, 255}
	Black     = color.RGBA{0, 0, 0, 255}
)

// Mesh is a parametric surface sampled on a Rows×Cols grid. Points[i][j]
// neighbours Points[i+1][j] and Points[i][j+1].
type Mesh struct {
	Points [][]bloch.Vector
	Color  color.RGBA
	Alpha  float64
}

// Arrow is drawn from From to To.
type Arrow struct {
	From  bloch.Vector
	To    bloch.Vector
	Color color.RGBA
	Width float64
}

// Label is text anchored at a point in scene space.
type Label struct {
	At    bloch.Vector
	Text  string
	Color color.RGBA
}

// Bounds are the axis limits of the scene cube.
type Bounds struct {
	Min, Max float64
}

// Scene is the complete description handed to a Surface.
type Scene struct {
	Sphere  Mesh
	Axes    []Arrow
	Arrows  []Arrow
	Labels  []Label
	Bounds  Bounds
	Title   string
	Overlap float64
}

// BuildOptions tune the generated geometry.
type BuildOptions struct {
	// Resolution is the number of samples along each mesh parameter.
	Resolution int
}

// DefaultBuildOptions returns the options used by the viewer.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{Resolution: DefaultResolution}
}

// Build describes the sphere with the reference and target vectors drawn
// from the origin. Non-unit vectors are drawn as given.
func Build(reference, target bloch.Vector, label string) Scene {
	return BuildWithOptions(reference, target, label, DefaultBuildOptions())
}

// BuildWithOptions is Build with explicit geometry options.
func BuildWithOptions(reference, target bloch.Vector, label string, opts BuildOptions) Scene {
	overlap := reference.Dot(target)
	origin := bloch.Vector{}

	axes := make([]Arrow, 0, 3)
	for _, axis := range []bloch.Vector{{X: 1}, {Y: 1}, {Z: 1}} {
		axes = append(axes, Arrow{From: origin, To: axis, Color: Gray, Width: 0.5})
	}

	return Scene{
		Sphere: SphereMesh(opts.Resolution),
		Axes:   axes,
		Arrows: []Arrow{
			{From: origin, To: reference, Color: Blue, Width: 2},
			{From: origin, To: target, Color: Red, Width: 2},
		},
		Labels: []Label{
			{At: reference.Scale(1.1), Text: ReferenceLabel, Color: Blue},
			{At: target.Scale(1.1), Text: label, Color: Red},
			{At: bloch.Vector{X: 1.25}, Text: "X", Color: Black},
			{At: bloch.Vector{Y: 1.25}, Text: "Y", Color: Black},
			{At: bloch.Vector{Z: 1.25}, Text: "Z", Color: Black},
		},
		Bounds:  Bounds{Min: -1, Max: 1},
		Title:   FormatTitle(overlap),
		Overlap: overlap,
	}
}

// SphereMesh samples the unit sphere on a resolution×resolution grid with
// u ∈ [0, 2π] around Z and v ∈ [0, π] from the north pole. Resolutions
// below 2 are raised to 2.
func SphereMesh(resolution int) Mesh {
	if resolution < 2 {
		resolution = 2
	}
	points := make([][]bloch.Vector, resolution)
	for i := range points {
		u := 2 * math.Pi * float64(i) / float64(resolution-1)
		row := make([]bloch.Vector, resolution)
		for j := range row {
			v := math.Pi * float64(j) / float64(resolution-1)
			row[j] = bloch.Vector{
				X: math.Cos(u) * math.Sin(v),
				Y: math.Sin(u) * math.Sin(v),
				Z: math.Cos(v),
			}
		}
		points[i] = row
	}
	return Mesh{Points: points, Color: LightBlue, Alpha: 0.1}
}

// FormatTitle renders the overlap annotation with two decimals.
func FormatTitle(overlap float64) string {
	d := fmt.Sprintf("%.2f", overlap)
	if d == "-0.00" {
		d = "0.00"
	}
	return "Inner Product ⟨0|ψ⟩ ≈ " + d
}
