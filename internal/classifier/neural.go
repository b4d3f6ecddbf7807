package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"gonum.org/v1/gonum/floats"
)

// KindNeural identifies models scored by an external network. It has no
// descriptor schema; the weights are opaque to this package.
const KindNeural descriptor.Kind = "neural"

// Scorer is an opaque network that maps a feature vector to one score per
// class. A Scorer that also has an InputWidth() int method has its width
// checked against the feature layout at load.
type Scorer interface {
	Scores(x []float64) ([]float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(x []float64) ([]float64, error)

func (f ScorerFunc) Scores(x []float64) ([]float64, error) { return f(x) }

// ScorerLoader produces a Scorer, typically by reading weights from disk.
type ScorerLoader func(ctx context.Context) (Scorer, error)

// Neural turns a Scorer's output into a prediction by argmax. Scores that
// already form a probability distribution are used as is; anything else
// is treated as logits and passed through softmax, so the confidence is
// always in [0, 1].
type Neural struct {
	classes []string
	scorer  Scorer
}

// NewNeural wraps scorer for the given class list.
func NewNeural(classes []string, scorer Scorer) (*Neural, error) {
	if len(classes) == 0 {
		return nil, configErrorf(KindNeural, "classes", "no classes")
	}
	if scorer == nil {
		return nil, configErrorf(KindNeural, "scorer", "nil scorer")
	}
	return &Neural{classes: classes, scorer: scorer}, nil
}

func (n *Neural) Kind() descriptor.Kind { return KindNeural }

// CheckWidth applies only when the scorer reports its input width.
func (n *Neural) CheckWidth(w int) error {
	if s, ok := n.scorer.(interface{ InputWidth() int }); ok {
		return checkWidth(KindNeural, w, s.InputWidth())
	}
	return nil
}

func (n *Neural) Predict(x features.Vector) (Prediction, error) {
	scores, err := n.scorer.Scores(x)
	if err != nil {
		return Prediction{}, fmt.Errorf("neural scores: %w", err)
	}
	if len(scores) != len(n.classes) {
		return Prediction{}, configErrorf(KindNeural, "classes", "scorer returned %d scores for %d classes", len(scores), len(n.classes))
	}
	probs := scores
	if !isDistribution(scores) {
		probs = softmax(scores)
	}
	win := argmax(probs)
	return Prediction{
		Index:         win,
		Label:         n.classes[win],
		Confidence:    probs[win],
		HasConfidence: true,
	}, nil
}

const distributionTolerance = 1e-6

func isDistribution(s []float64) bool {
	for _, v := range s {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return math.Abs(floats.Sum(s)-1) <= distributionTolerance
}
