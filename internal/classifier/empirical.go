package classifier

import (
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"github.com/abhisek/formcheck/internal/verdict"
)

// HighPlankChecks is the built-in rule set for the high plank. Checks are
// evaluated in order and the first violation wins.
var HighPlankChecks = []descriptor.Check{
	{
		Name:    "wrist_elbow_shoulder",
		Left:    [3]string{"LEFT_WRIST", "LEFT_ELBOW", "LEFT_SHOULDER"},
		Right:   [3]string{"RIGHT_WRIST", "RIGHT_ELBOW", "RIGHT_SHOULDER"},
		Min:     0,
		Max:     45,
		Message: "Align your elbows with your wrists and shoulders",
	},
	{
		Name:    "wrist_shoulders",
		Left:    [3]string{"LEFT_WRIST", "LEFT_SHOULDER", "RIGHT_SHOULDER"},
		Right:   [3]string{"RIGHT_WRIST", "RIGHT_SHOULDER", "LEFT_SHOULDER"},
		Min:     75,
		Max:     100,
		Message: "Your arms are too open or too closed",
	},
	{
		Name:    "wrist_shoulder_hip",
		Left:    [3]string{"LEFT_WRIST", "LEFT_SHOULDER", "LEFT_HIP"},
		Right:   [3]string{"RIGHT_WRIST", "RIGHT_SHOULDER", "RIGHT_HIP"},
		Min:     80,
		Max:     130,
		Message: "Keep your wrists aligned with your shoulders and hips",
	},
	{
		Name:    "shoulder_hip_knee",
		Left:    [3]string{"LEFT_SHOULDER", "LEFT_HIP", "LEFT_KNEE"},
		Right:   [3]string{"RIGHT_SHOULDER", "RIGHT_HIP", "RIGHT_KNEE"},
		Min:     0,
		Max:     25,
		Message: "Keep your knees aligned with your hips and shoulders",
	},
	{
		Name:    "hip_knee_ankle",
		Left:    [3]string{"LEFT_HIP", "LEFT_KNEE", "LEFT_ANKLE"},
		Right:   [3]string{"RIGHT_HIP", "RIGHT_KNEE", "RIGHT_ANKLE"},
		Min:     0,
		Max:     25,
		Message: "Keep your ankles aligned with your hips and knees",
	},
}

// Empirical is the rule engine. It consumes two raw degree angles per
// check (left then right) and reports the first check whose either side
// falls outside its inclusive interval.
type Empirical struct {
	checks []descriptor.Check
	spec   features.Spec
}

// NewEmpirical builds the rule engine for an ordered check list.
func NewEmpirical(checks []descriptor.Check) (*Empirical, error) {
	kind := descriptor.KindEmpirical
	if len(checks) == 0 {
		return nil, configErrorf(kind, "model_data.checks", "no checks")
	}
	normalize := false
	spec := features.Spec{Degrees: true, Normalize: &normalize}
	for i, c := range checks {
		if c.Min > c.Max {
			return nil, configErrorf(kind, "model_data.checks", "check %d (%s): min %v exceeds max %v", i, c.Name, c.Min, c.Max)
		}
		spec.Angles = append(spec.Angles, c.Left, c.Right)
	}
	// Resolve names now so a bad joint fails at load, not per frame.
	if _, err := spec.Compile(); err != nil {
		return nil, &ConfigError{Kind: kind, Field: "model_data.checks", Err: err}
	}
	return &Empirical{checks: checks, spec: spec}, nil
}

// NewEmpiricalFromDescriptor builds the rule engine from a descriptor's
// model data. A descriptor without checks uses HighPlankChecks.
func NewEmpiricalFromDescriptor(d *descriptor.Descriptor) (*Empirical, error) {
	var data descriptor.EmpiricalData
	if len(d.ModelData) > 0 {
		if err := d.DecodeModelData(&data); err != nil {
			return nil, err
		}
	}
	if len(data.Checks) == 0 {
		data.Checks = HighPlankChecks
	}
	return NewEmpirical(data.Checks)
}

func (e *Empirical) Kind() descriptor.Kind { return descriptor.KindEmpirical }

func (e *Empirical) CheckWidth(n int) error { return checkWidth(e.Kind(), n, 2*len(e.checks)) }

// FeatureSpec is the paired left/right degree-angle layout the checks read.
func (e *Empirical) FeatureSpec() features.Spec { return e.spec }

// Checks returns the ordered rule set.
func (e *Empirical) Checks() []descriptor.Check { return e.checks }

func (e *Empirical) Predict(x features.Vector) (Prediction, error) {
	if err := checkLen(e.Kind(), x, 2*len(e.checks)); err != nil {
		return Prediction{}, err
	}
	for i, c := range e.checks {
		left, right := x[2*i], x[2*i+1]
		if !within(left, c.Min, c.Max) || !within(right, c.Min, c.Max) {
			return Prediction{
				Index:   -1,
				Label:   verdict.LabelIncorrect,
				Message: c.Message,
				Check:   c.Name,
			}, nil
		}
	}
	return Prediction{Index: -1, Label: verdict.LabelCorrect}, nil
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
