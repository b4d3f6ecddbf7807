package classifier

import (
	"math"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"gonum.org/v1/gonum/floats"
)

// LogisticRegression scores each class linearly. A single coefficient row
// is the binary case (sigmoid over two classes); otherwise a softmax runs
// over one row per class.
type LogisticRegression struct {
	classes   []string
	coef      [][]float64
	intercept []float64
}

func NewLogisticRegression(d *descriptor.Descriptor) (*LogisticRegression, error) {
	kind := descriptor.KindLogisticRegression
	var data descriptor.LogisticData
	if err := d.DecodeModelData(&data); err != nil {
		return nil, err
	}

	rows := len(data.Coef)
	switch {
	case rows == 0:
		return nil, configErrorf(kind, "model_data.coef", "no coefficient rows")
	case rows == 1 && len(d.Classes) != 2:
		return nil, configErrorf(kind, "model_data.coef", "one coefficient row needs 2 classes, have %d", len(d.Classes))
	case rows > 1 && rows != len(d.Classes):
		return nil, configErrorf(kind, "model_data.coef", "%d coefficient rows for %d classes", rows, len(d.Classes))
	}
	if len(data.Intercept) != rows {
		return nil, configErrorf(kind, "model_data.intercept", "%d intercepts for %d coefficient rows", len(data.Intercept), rows)
	}
	width := len(data.Coef[0])
	for i, row := range data.Coef {
		if len(row) != width {
			return nil, configErrorf(kind, "model_data.coef", "row %d has length %d, want %d", i, len(row), width)
		}
	}

	return &LogisticRegression{classes: d.Classes, coef: data.Coef, intercept: data.Intercept}, nil
}

func (m *LogisticRegression) Kind() descriptor.Kind { return descriptor.KindLogisticRegression }

func (m *LogisticRegression) CheckWidth(n int) error { return checkWidth(m.Kind(), n, len(m.coef[0])) }

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softmax subtracts the largest logit before exponentiating so large
// scores cannot overflow.
func softmax(logits []float64) []float64 {
	max := floats.Max(logits)
	out := make([]float64, len(logits))
	for i, z := range logits {
		out[i] = math.Exp(z - max)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

// Probabilities returns the per-class probabilities for x.
func (m *LogisticRegression) Probabilities(x features.Vector) ([]float64, error) {
	if err := checkLen(m.Kind(), x, len(m.coef[0])); err != nil {
		return nil, err
	}
	logits := make([]float64, len(m.coef))
	for i, w := range m.coef {
		logits[i] = floats.Dot(w, x) + m.intercept[i]
	}
	if len(logits) == 1 {
		p := sigmoid(logits[0])
		return []float64{1 - p, p}, nil
	}
	return softmax(logits), nil
}

// Predict reports the most probable class; confidence is its probability.
func (m *LogisticRegression) Predict(x features.Vector) (Prediction, error) {
	probs, err := m.Probabilities(x)
	if err != nil {
		return Prediction{}, err
	}
	win := argmax(probs)
	return Prediction{
		Index:         win,
		Label:         m.classes[win],
		Confidence:    probs[win],
		HasConfidence: true,
	}, nil
}
