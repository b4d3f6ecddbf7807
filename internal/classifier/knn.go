package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"gonum.org/v1/gonum/floats"
)

// Neighbor weighting strategies.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// KNN is a k-nearest-neighbors classifier over a stored training set.
type KNN struct {
	classes []string
	x       [][]float64
	y       []int
	k       int
	p       float64
	weights string
}

// Neighbor is a stored training row and its distance to a query.
type Neighbor struct {
	Row      int
	Class    int
	Distance float64
}

// NewKNN builds a KNN engine. Unset params fall back to k=5, p=2 and
// uniform weights.
func NewKNN(d *descriptor.Descriptor) (*KNN, error) {
	kind := descriptor.KindKNN
	params := descriptor.KNNParams{NNeighbors: 5, P: 2, Weights: WeightsUniform}
	if err := d.DecodeParams(&params); err != nil {
		return nil, err
	}
	var data descriptor.KNNData
	if err := d.DecodeModelData(&data); err != nil {
		return nil, err
	}

	if params.Metric != "" && params.Metric != "minkowski" {
		return nil, configErrorf(kind, "params.metric", "unsupported metric %q", params.Metric)
	}
	if params.Weights != WeightsUniform && params.Weights != WeightsDistance {
		return nil, configErrorf(kind, "params.weights", "unsupported weights %q", params.Weights)
	}
	if params.NNeighbors < 1 {
		return nil, configErrorf(kind, "params.n_neighbors", "must be positive, got %d", params.NNeighbors)
	}
	if params.P <= 0 {
		return nil, configErrorf(kind, "params.p", "must be positive, got %v", params.P)
	}
	if len(data.X) == 0 {
		return nil, configErrorf(kind, "model_data.X", "training set is empty")
	}
	if len(data.X) != len(data.Y) {
		return nil, configErrorf(kind, "model_data", "X has %d rows but y has %d labels", len(data.X), len(data.Y))
	}
	width := len(data.X[0])
	for i, row := range data.X {
		if len(row) != width {
			return nil, configErrorf(kind, "model_data.X", "row %d has length %d, want %d", i, len(row), width)
		}
	}
	for i, label := range data.Y {
		if label < 0 || label >= len(d.Classes) {
			return nil, configErrorf(kind, "model_data.y", "label %d at row %d is outside the %d classes", label, i, len(d.Classes))
		}
	}

	return &KNN{
		classes: d.Classes,
		x:       data.X,
		y:       data.Y,
		k:       params.NNeighbors,
		p:       params.P,
		weights: params.Weights,
	}, nil
}

func (m *KNN) Kind() descriptor.Kind { return descriptor.KindKNN }

func (m *KNN) CheckWidth(n int) error { return checkWidth(m.Kind(), n, len(m.x[0])) }

// Neighbors returns the k stored rows closest to x under the Minkowski
// distance, nearest first. Equal distances keep training-set order.
func (m *KNN) Neighbors(x features.Vector) ([]Neighbor, error) {
	if err := checkLen(m.Kind(), x, len(m.x[0])); err != nil {
		return nil, err
	}
	all := make([]Neighbor, len(m.x))
	for i, row := range m.x {
		all[i] = Neighbor{Row: i, Class: m.y[i], Distance: floats.Distance(x, row, m.p)}
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].Distance < all[b].Distance })

	k := m.k
	if k > len(all) {
		k = len(all)
	}
	return all[:k], nil
}

// Predict votes among the k nearest neighbors. With distance weighting
// each vote counts 1/d and an exact match (d == 0) counts as infinite
// weight, so it wins outright. The running leader only changes on a
// strictly greater tally, so ties go to the label seen first.
func (m *KNN) Predict(x features.Vector) (Prediction, error) {
	neighbors, err := m.Neighbors(x)
	if err != nil {
		return Prediction{}, err
	}

	votes := make(map[int]float64, len(m.classes))
	winner, best := -1, 0.0
	var total float64
	exact := 0
	for _, n := range neighbors {
		w := 1.0
		if m.weights == WeightsDistance {
			if n.Distance == 0 {
				w = math.Inf(1)
				exact++
			} else {
				w = 1 / n.Distance
			}
		}
		votes[n.Class] += w
		total += w
		if votes[n.Class] > best {
			winner, best = n.Class, votes[n.Class]
		}
	}
	if winner < 0 {
		return Prediction{}, fmt.Errorf("knn: no neighbors voted")
	}

	conf := best / total
	if math.IsInf(total, 1) {
		// Only exact matches carry weight; share among them.
		matched := 0
		for _, n := range neighbors {
			if n.Distance == 0 && n.Class == winner {
				matched++
			}
		}
		conf = float64(matched) / float64(exact)
	}

	return Prediction{
		Index:         winner,
		Label:         m.classes[winner],
		Confidence:    conf,
		HasConfidence: true,
	}, nil
}
