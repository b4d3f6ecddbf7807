package features

import (
	"fmt"
	"math"

	"github.com/abhisek/formcheck/internal/geom"
	"github.com/abhisek/formcheck/internal/pose"
)

// Vector is an ordered feature vector. Its length and meaning are fixed by
// the Compiled spec that produced it.
type Vector []float64

// TripletAngle measures the angle for triplet (a, b, c) between b−a and
// c−b. When normalize is set the angle is divided by π (radians) or 180
// (degrees).
func TripletAngle(p *pose.Pose, t Triplet, degrees, normalize bool) float64 {
	a, b, c := p.At(t[0]), p.At(t[1]), p.At(t[2])
	angle := b.Sub(a).AngleBetween(c.Sub(b), degrees)
	if normalize {
		if degrees {
			angle /= 180
		} else {
			angle /= math.Pi
		}
	}
	return angle
}

// Extract computes the feature vector for p. The same spec and pose always
// produce a bit-identical vector.
func (c *Compiled) Extract(p *pose.Pose) (Vector, error) {
	if p == nil {
		return nil, fmt.Errorf("extract features: nil pose")
	}
	out := make(Vector, 0, c.Len())
	for _, t := range c.triplets {
		out = append(out, TripletAngle(p, t, c.degrees, c.normalize))
	}
	if len(c.points) == 0 {
		return out, nil
	}

	frame := geom.CanonicalFrame
	if c.axes != nil {
		origin := p.Midpoint(c.axes.origin...)
		xAnchor := p.Midpoint(c.axes.x...)
		yAnchor := p.Midpoint(c.axes.y...)
		f, err := geom.BuildFrame(origin, xAnchor.Sub(origin), yAnchor.Sub(xAnchor))
		if err != nil {
			return nil, fmt.Errorf("extract features: %w", err)
		}
		frame = f
	}

	scale := 1.0
	if c.scale != nil {
		scale = p.Midpoint(c.scale.from...).Sub(p.Midpoint(c.scale.to...)).Norm()
		if scale == 0 {
			return nil, fmt.Errorf("extract features: zero body-length scale: %w", geom.ErrDegenerateFrame)
		}
	}

	for _, j := range c.points {
		local := frame.ToLocal(p.At(j))
		out = append(out, local.X/scale, local.Y/scale, local.Z/scale)
	}
	return out, nil
}
