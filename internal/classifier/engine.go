package classifier

import (
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"gonum.org/v1/gonum/floats"
)

// Prediction is an engine's raw verdict for one feature vector.
type Prediction struct {
	// Index is the winning position in the class list, or -1 for engines
	// without a class list.
	Index int
	Label string

	Confidence    float64
	HasConfidence bool

	// Message and Check are set by the rule engine: the corrective text
	// and the name of the first violated check.
	Message string
	Check   string
}

// Engine is a loaded inference procedure. Predict is pure computation and
// performs no I/O.
type Engine interface {
	Kind() descriptor.Kind
	Predict(x features.Vector) (Prediction, error)
}

// specProvider is implemented by engines that define their own feature
// layout instead of using the descriptor's.
type specProvider interface {
	FeatureSpec() features.Spec
}

// widthChecker is implemented by engines trained on a fixed feature
// layout. CheckWidth rejects a vector length the engine cannot consume.
type widthChecker interface {
	CheckWidth(n int) error
}

// NewEngine builds the engine for a decoded descriptor.
func NewEngine(d *descriptor.Descriptor) (Engine, error) {
	switch d.Kind {
	case descriptor.KindKNN:
		return NewKNN(d)
	case descriptor.KindRandomForest:
		return NewRandomForest(d)
	case descriptor.KindLogisticRegression:
		return NewLogisticRegression(d)
	case descriptor.KindSVM:
		return NewSVM(d)
	case descriptor.KindEmpirical:
		return NewEmpiricalFromDescriptor(d)
	default:
		return nil, configErrorf(d.Kind, "kind", "unsupported classifier kind %q", d.Kind)
	}
}

func checkLen(kind descriptor.Kind, x features.Vector, want int) error {
	return checkWidth(kind, len(x), want)
}

func checkWidth(kind descriptor.Kind, n, want int) error {
	if n != want {
		return configErrorf(kind, "features", "feature vector has length %d, model expects %d", n, want)
	}
	return nil
}

// argmax returns the index of the first maximum, so ties resolve to the
// earliest class.
func argmax(s []float64) int {
	return floats.MaxIdx(s)
}

func labelAt(classes []string, i int) string {
	if i < 0 || i >= len(classes) {
		return ""
	}
	return classes[i]
}
