// Package features turns a Pose into the numeric feature vector a model
// was trained on.
//
// A Spec is carried by each model descriptor, so the same extractor serves
// any exercise: only the list of joint triplets (and, for point models, the
// local frame definition) changes.
//
// Angle features use the sequential-edge convention: for a triplet (a, b, c)
// the angle is measured between b−a and c−b, not the included angle at b.
// Models are trained on this convention, so it must not be "corrected".
package features

import (
	"errors"
	"fmt"

	"github.com/abhisek/formcheck/internal/pose"
)

// Spec is the persisted feature specification of a model descriptor.
type Spec struct {
	// Angles lists joint-name triplets, one feature per triplet.
	Angles [][3]string `json:"angles,omitempty"`

	// Combinations generates one angle triplet per k-subset of Joints,
	// in lexicographic index order, appended after Angles.
	Combinations *CombinationSpec `json:"combinations,omitempty"`

	// Degrees selects degrees instead of radians for angle features.
	Degrees bool `json:"degrees,omitempty"`

	// Normalize divides each angle by π (or 180) to map it into [0, 1].
	// Defaults to true when omitted.
	Normalize *bool `json:"normalize,omitempty"`

	// Points lists joints projected into the local frame; three features
	// (x, y, z) per joint, after all angle features.
	Points []string `json:"points,omitempty"`

	// Axes defines the pose-derived local frame for Points. When nil,
	// points are taken in world coordinates.
	Axes *AxesSpec `json:"axes,omitempty"`

	// Scale divides projected points by a body length for scale invariance.
	Scale *ScaleSpec `json:"scale,omitempty"`
}

// CombinationSpec expands to every Size-subset of Joints.
type CombinationSpec struct {
	Joints []string `json:"joints"`
	Size   int      `json:"size"`
}

// AxesSpec defines a local frame from three anchors. Each anchor is the
// midpoint of its joints. The x direction runs from Origin to X; the y
// reference direction runs from X to Y and is orthogonalized against x.
type AxesSpec struct {
	Origin []string `json:"origin"`
	X      []string `json:"x"`
	Y      []string `json:"y"`
}

// ScaleSpec divides point features by the distance between two anchors.
type ScaleSpec struct {
	From []string `json:"from"`
	To   []string `json:"to"`
}

// Triplet is a resolved angle measurement.
type Triplet [3]pose.Joint

// Compiled is a Spec with every joint name resolved and every combination
// expanded. It is immutable and safe to share.
type Compiled struct {
	triplets  []Triplet
	degrees   bool
	normalize bool
	points    []pose.Joint
	axes      *compiledAxes
	scale     *compiledScale
}

type compiledAxes struct {
	origin, x, y []pose.Joint
}

type compiledScale struct {
	from, to []pose.Joint
}

// ErrEmptySpec is returned when a spec would produce no features.
var ErrEmptySpec = errors.New("feature spec produces no features")

// Compile resolves joint names and expands combinations once, so that
// Extract does no name lookups per frame.
func (s Spec) Compile() (*Compiled, error) {
	c := &Compiled{
		degrees:   s.Degrees,
		normalize: s.Normalize == nil || *s.Normalize,
	}

	for i, names := range s.Angles {
		t, err := resolveTriplet(names)
		if err != nil {
			return nil, fmt.Errorf("angles[%d]: %w", i, err)
		}
		c.triplets = append(c.triplets, t)
	}

	if s.Combinations != nil {
		joints, err := pose.ParseJoints(s.Combinations.Joints)
		if err != nil {
			return nil, fmt.Errorf("combinations: %w", err)
		}
		if s.Combinations.Size != 3 {
			return nil, fmt.Errorf("combinations: size %d not supported, angle features need 3", s.Combinations.Size)
		}
		for _, idx := range Combinations(len(joints), 3) {
			c.triplets = append(c.triplets, Triplet{joints[idx[0]], joints[idx[1]], joints[idx[2]]})
		}
	}

	points, err := pose.ParseJoints(s.Points)
	if err != nil {
		return nil, fmt.Errorf("points: %w", err)
	}
	c.points = points

	if s.Axes != nil {
		a := &compiledAxes{}
		if a.origin, err = parseAnchor("axes.origin", s.Axes.Origin); err != nil {
			return nil, err
		}
		if a.x, err = parseAnchor("axes.x", s.Axes.X); err != nil {
			return nil, err
		}
		if a.y, err = parseAnchor("axes.y", s.Axes.Y); err != nil {
			return nil, err
		}
		c.axes = a
	}

	if s.Scale != nil {
		sc := &compiledScale{}
		if sc.from, err = parseAnchor("scale.from", s.Scale.From); err != nil {
			return nil, err
		}
		if sc.to, err = parseAnchor("scale.to", s.Scale.To); err != nil {
			return nil, err
		}
		c.scale = sc
	}

	if c.Len() == 0 {
		return nil, ErrEmptySpec
	}
	return c, nil
}

// Len is the length of every vector this spec extracts.
func (c *Compiled) Len() int {
	return len(c.triplets) + 3*len(c.points)
}

// Triplets returns the resolved angle triplets in feature order.
func (c *Compiled) Triplets() []Triplet {
	out := make([]Triplet, len(c.triplets))
	copy(out, c.triplets)
	return out
}

func resolveTriplet(names [3]string) (Triplet, error) {
	var t Triplet
	for i, n := range names {
		j, err := pose.ParseJoint(n)
		if err != nil {
			return t, err
		}
		t[i] = j
	}
	return t, nil
}

func parseAnchor(field string, names []string) ([]pose.Joint, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: anchor needs at least one joint", field)
	}
	joints, err := pose.ParseJoints(names)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return joints, nil
}

// Combinations returns every k-subset of {0..n-1} as ascending index
// tuples, in lexicographic order. The order is part of the persisted
// feature layout and must stay stable.
func Combinations(n, k int) [][]int {
	if k <= 0 || k > n {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int, k)
		copy(combo, idx)
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
