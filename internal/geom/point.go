package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3 is an immutable 3D point or direction vector.
type Point3 struct {
	X, Y, Z float64
}

// P builds a Point3 from its coordinates.
func P(x, y, z float64) Point3 {
	return Point3{X: x, Y: y, Z: z}
}

func (p Point3) vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func fromVec(v r3.Vec) Point3 { return Point3{X: v.X, Y: v.Y, Z: v.Z} }

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 { return fromVec(r3.Sub(p.vec(), q.vec())) }

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 { return fromVec(r3.Add(p.vec(), q.vec())) }

// Scale returns p multiplied by f.
func (p Point3) Scale(f float64) Point3 { return fromVec(r3.Scale(f, p.vec())) }

// Midpoint returns the point halfway between p and q.
func (p Point3) Midpoint(q Point3) Point3 { return p.Add(q).Scale(0.5) }

// Dot returns the dot product of p and q.
func (p Point3) Dot(q Point3) float64 { return r3.Dot(p.vec(), q.vec()) }

// Cross returns the cross product p × q.
func (p Point3) Cross(q Point3) Point3 { return fromVec(r3.Cross(p.vec(), q.vec())) }

// Norm returns the Euclidean length of p.
func (p Point3) Norm() float64 { return r3.Norm(p.vec()) }

// Normalize returns the unit vector in the direction of p.
// The zero vector normalizes to NaN components; callers that can receive
// a zero vector must check Norm first.
func (p Point3) Normalize() Point3 {
	n := p.Norm()
	return Point3{X: p.X / n, Y: p.Y / n, Z: p.Z / n}
}

// AngleBetween returns the angle between p and q, in radians or degrees.
//
// The cosine is clamped to [-1, 1] so floating-point overshoot never
// reaches acos as NaN. If either vector has zero length the angle is
// undefined and 0 is returned.
func (p Point3) AngleBetween(q Point3, degrees bool) float64 {
	denom := p.Norm() * q.Norm()
	if denom == 0 {
		return 0
	}
	cos := p.Dot(q) / denom
	cos = math.Max(-1, math.Min(1, cos))
	angle := math.Acos(cos)
	if degrees {
		return angle * 180 / math.Pi
	}
	return angle
}

// Slice returns the coordinates as [x, y, z].
func (p Point3) Slice() []float64 { return []float64{p.X, p.Y, p.Z} }

// IsFinite reports whether all coordinates are finite numbers.
func (p Point3) IsFinite() bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (p Point3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}
