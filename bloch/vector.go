// Package bloch maps two-level quantum states to points on the unit sphere.
//
// A state is described by a polar angle θ measured from +Z and an azimuthal
// angle φ measured in the XY plane from +X. The mapping is the usual
// spherical-to-Cartesian transform with Z as the polar axis:
//
//	v := bloch.FromAngles(math.Pi/2, 0) // (1, 0, 0), the |+⟩ state
//	overlap := bloch.Reference().Dot(v)  // 0
package bloch

import "math"

// Vector is a point (or direction) in 3D space.
type Vector struct {
	X, Y, Z float64
}

func (a Vector) Add(b Vector) Vector    { return Vector{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s, v.Z * s} }
func (a Vector) Dot(b Vector) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (v Vector) Len() float64           { return math.Sqrt(v.Dot(v)) }
func (v Vector) Components() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// FromAngles returns the unit vector for polar angle theta and azimuthal
// angle phi, both in radians. Any real input is accepted; angles outside
// their nominal ranges wrap around the sphere.
func FromAngles(theta, phi float64) Vector {
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	return Vector{
		X: st * cp,
		Y: st * sp,
		Z: ct,
	}
}

// Reference is the fixed |0⟩ state at the north pole.
func Reference() Vector {
	return FromAngles(0, 0)
}

// Angles is a (θ, φ) pair in radians.
type Angles struct {
	Theta float64
	Phi   float64
}

// Degrees converts a (θ, φ) pair given in degrees.
func Degrees(thetaDeg, phiDeg float64) Angles {
	return Angles{
		Theta: thetaDeg * math.Pi / 180,
		Phi:   phiDeg * math.Pi / 180,
	}
}

// Vector maps the angle pair onto the unit sphere.
func (a Angles) Vector() Vector {
	return FromAngles(a.Theta, a.Phi)
}
