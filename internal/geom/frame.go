package geom

import "errors"

// ErrDegenerateFrame is returned by BuildFrame when the two reference
// directions are collinear (or one of them has zero length), so no
// orthonormal basis can be derived from them.
var ErrDegenerateFrame = errors.New("degenerate coordinate frame: reference directions are collinear")

// degenerateEps bounds the cross-product norm below which two directions
// are treated as collinear.
const degenerateEps = 1e-12

// Frame is a local coordinate system: an origin plus three mutually
// orthogonal unit axes.
type Frame struct {
	Origin  Point3
	X, Y, Z Point3
}

// CanonicalFrame is the world frame: origin at zero, unit axes.
var CanonicalFrame = Frame{
	X: P(1, 0, 0),
	Y: P(0, 1, 0),
	Z: P(0, 0, 1),
}

// BuildFrame derives an orthonormal frame from two raw reference directions.
//
//	x = normalize(xDir)
//	z = normalize(x × yDir)
//	y = normalize(z × x)
//
// y is recomputed from z and x, so the result is orthogonal even when xDir
// and yDir are not perpendicular. Collinear directions yield ErrDegenerateFrame;
// they are not silently replaced by an arbitrary axis.
func BuildFrame(origin, xDir, yDir Point3) (Frame, error) {
	if xDir.Norm() < degenerateEps {
		return Frame{}, ErrDegenerateFrame
	}
	x := xDir.Normalize()
	zRaw := x.Cross(yDir)
	if zRaw.Norm() < degenerateEps {
		return Frame{}, ErrDegenerateFrame
	}
	z := zRaw.Normalize()
	y := z.Cross(x).Normalize()
	return Frame{Origin: origin, X: x, Y: y, Z: z}, nil
}

// ToLocal re-expresses p in the frame: translation is removed first, then
// the offset is projected onto each axis.
func (f Frame) ToLocal(p Point3) Point3 {
	rel := p.Sub(f.Origin)
	return Point3{
		X: rel.Dot(f.X),
		Y: rel.Dot(f.Y),
		Z: rel.Dot(f.Z),
	}
}
