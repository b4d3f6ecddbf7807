package classifier

import (
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
)

const leafMarker = -1

// RandomForest votes across decision trees. Each tree routes a vector
// down (feature, threshold) splits to a leaf of per-class counts; the
// forest returns the majority of the trees' argmax labels.
type RandomForest struct {
	classes    []string
	trees      []descriptor.Tree
	minFeature int // smallest feature vector length every split can index
	nFeatures  int // training width, 0 when the descriptor omits it
}

// NewRandomForest validates and builds a forest. Every tree's arrays must
// be parallel, child indices must point forward (so routing terminates),
// and every leaf's value vector must have one entry per class. A single
// leaf is a valid tree.
func NewRandomForest(d *descriptor.Descriptor) (*RandomForest, error) {
	kind := descriptor.KindRandomForest
	var data descriptor.ForestData
	if err := d.DecodeModelData(&data); err != nil {
		return nil, err
	}
	if len(data.Forest) == 0 {
		return nil, configErrorf(kind, "model_data.forest", "forest has no trees")
	}

	nClasses := len(d.Classes)
	minFeature := 0
	for ti, t := range data.Forest {
		n := len(t.ChildrenLeft)
		if n == 0 {
			return nil, configErrorf(kind, "model_data.forest", "tree %d has no nodes", ti)
		}
		if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return nil, configErrorf(kind, "model_data.forest", "tree %d arrays are not parallel", ti)
		}
		for node := 0; node < n; node++ {
			left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
			if left == leafMarker {
				if len(t.Value[node]) != nClasses {
					return nil, configErrorf(kind, "model_data.forest",
						"tree %d leaf %d has %d values, want %d classes", ti, node, len(t.Value[node]), nClasses)
				}
				continue
			}
			if left <= node || left >= n || right <= node || right >= n {
				return nil, configErrorf(kind, "model_data.forest",
					"tree %d node %d has invalid children (%d, %d)", ti, node, left, right)
			}
			if t.Feature[node] < 0 {
				return nil, configErrorf(kind, "model_data.forest",
					"tree %d node %d splits on feature %d", ti, node, t.Feature[node])
			}
			if t.Feature[node]+1 > minFeature {
				minFeature = t.Feature[node] + 1
			}
		}
	}

	if data.NFeatures > 0 && data.NFeatures < minFeature {
		return nil, configErrorf(kind, "model_data.n_features",
			"n_features is %d but trees split on index %d", data.NFeatures, minFeature-1)
	}

	return &RandomForest{classes: d.Classes, trees: data.Forest, minFeature: minFeature, nFeatures: data.NFeatures}, nil
}

func (m *RandomForest) Kind() descriptor.Kind { return descriptor.KindRandomForest }

// CheckWidth requires the training width when known. Otherwise any vector
// long enough for every split is accepted.
func (m *RandomForest) CheckWidth(n int) error {
	if m.nFeatures > 0 {
		return checkWidth(m.Kind(), n, m.nFeatures)
	}
	if n < m.minFeature {
		return configErrorf(m.Kind(), "features",
			"feature vector has length %d, trees split on index %d", n, m.minFeature-1)
	}
	return nil
}

// leaf routes x to a leaf: values at or below the threshold go left.
func leaf(t descriptor.Tree, x features.Vector) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafMarker {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// TreeVotes returns the per-class count of trees whose leaf argmax picked
// that class.
func (m *RandomForest) TreeVotes(x features.Vector) ([]float64, error) {
	if err := m.CheckWidth(len(x)); err != nil {
		return nil, err
	}
	votes := make([]float64, len(m.classes))
	for _, t := range m.trees {
		votes[argmax(leaf(t, x))]++
	}
	return votes, nil
}

func (m *RandomForest) Predict(x features.Vector) (Prediction, error) {
	votes, err := m.TreeVotes(x)
	if err != nil {
		return Prediction{}, err
	}
	win := argmax(votes)
	return Prediction{
		Index:         win,
		Label:         m.classes[win],
		Confidence:    votes[win] / float64(len(m.trees)),
		HasConfidence: true,
	}, nil
}
