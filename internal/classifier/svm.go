package classifier

import (
	"math"

	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/features"
	"gonum.org/v1/gonum/floats"
)

// Kernel names.
const (
	KernelLinear  = "linear"
	KernelPoly    = "poly"
	KernelRBF     = "rbf"
	KernelSigmoid = "sigmoid"
)

// Multiclass decision shapes.
const (
	ShapeOVO = "ovo"
	ShapeOVR = "ovr"
)

type kernelFunc func(x, y []float64) float64

// SVM evaluates a dual-form support vector machine:
//
//	f(x) = Σ dual_coef[k] · K(x, sv[k]) + intercept
//
// Two classes use a single boundary (positive → second class). More
// classes use one-vs-one voting or one-vs-rest argmax.
type SVM struct {
	classes   []string
	shape     string
	kernel    kernelFunc
	sv        [][]float64
	dualCoef  [][]float64
	intercept []float64
	nSupport  []int
}

func newKernel(data descriptor.SVMData) (kernelFunc, error) {
	gamma, coef0, degree := data.Gamma, data.Coef0, data.Degree
	switch data.Kernel {
	case KernelLinear:
		return func(x, y []float64) float64 { return floats.Dot(x, y) }, nil
	case KernelPoly:
		return func(x, y []float64) float64 {
			return math.Pow(gamma*floats.Dot(x, y)+coef0, degree)
		}, nil
	case KernelRBF:
		return func(x, y []float64) float64 {
			d := floats.Distance(x, y, 2)
			return math.Exp(-gamma * d * d)
		}, nil
	case KernelSigmoid:
		return func(x, y []float64) float64 {
			return math.Tanh(gamma*floats.Dot(x, y) + coef0)
		}, nil
	default:
		return nil, configErrorf(descriptor.KindSVM, "model_data.kernel", "unsupported kernel %q", data.Kernel)
	}
}

// NewSVM validates the support-vector layout for the decision shape. An
// unknown kernel or decision shape is a configuration error, never a
// fallback.
func NewSVM(d *descriptor.Descriptor) (*SVM, error) {
	kind := descriptor.KindSVM
	params := descriptor.SVMParams{DecisionFunctionShape: ShapeOVR}
	if err := d.DecodeParams(&params); err != nil {
		return nil, err
	}
	var data descriptor.SVMData
	if err := d.DecodeModelData(&data); err != nil {
		return nil, err
	}

	shape := params.DecisionFunctionShape
	if shape == "" {
		shape = ShapeOVR
	}
	if shape != ShapeOVO && shape != ShapeOVR {
		return nil, configErrorf(kind, "params.decision_function_shape", "unsupported decision shape %q", shape)
	}
	kernel, err := newKernel(data)
	if err != nil {
		return nil, err
	}

	if len(data.SupportVectors) == 0 {
		return nil, configErrorf(kind, "model_data.support_vectors", "no support vectors")
	}
	width := len(data.SupportVectors[0])
	for i, sv := range data.SupportVectors {
		if len(sv) != width {
			return nil, configErrorf(kind, "model_data.support_vectors", "vector %d has length %d, want %d", i, len(sv), width)
		}
	}

	m := &SVM{
		classes:   d.Classes,
		shape:     shape,
		kernel:    kernel,
		sv:        data.SupportVectors,
		dualCoef:  data.DualCoef,
		intercept: data.Intercept,
		nSupport:  data.NSupport,
	}
	if err := m.validateLayout(); err != nil {
		return nil, err
	}
	return m, nil
}

// validateLayout walks the same offsets Predict uses, so a descriptor that
// loads can never slice out of range.
func (m *SVM) validateLayout() error {
	kind := descriptor.KindSVM
	nClasses := len(m.classes)
	nSV := len(m.sv)

	if nClasses == 2 {
		if len(m.dualCoef) < 1 || len(m.intercept) < 1 {
			return configErrorf(kind, "model_data", "binary model needs one dual_coef row and one intercept")
		}
		if len(m.dualCoef[0]) > nSV {
			return configErrorf(kind, "model_data.dual_coef", "%d coefficients for %d support vectors", len(m.dualCoef[0]), nSV)
		}
		return nil
	}

	if len(m.nSupport) != nClasses {
		return configErrorf(kind, "model_data.n_support", "%d entries for %d classes", len(m.nSupport), nClasses)
	}

	switch m.shape {
	case ShapeOVO:
		pairs := nClasses * (nClasses - 1) / 2
		if len(m.dualCoef) != pairs || len(m.intercept) != pairs {
			return configErrorf(kind, "model_data", "ovo needs %d dual_coef rows and intercepts, have %d and %d",
				pairs, len(m.dualCoef), len(m.intercept))
		}
		offset, pair := 0, 0
		for i := 0; i < nClasses; i++ {
			for j := i + 1; j < nClasses; j++ {
				n := m.nSupport[i] + m.nSupport[j]
				if len(m.dualCoef[pair]) != n || offset+n > nSV {
					return configErrorf(kind, "model_data", "ovo pair (%d, %d) does not fit the support vectors", i, j)
				}
				offset += n
				pair++
			}
		}
	case ShapeOVR:
		if len(m.dualCoef) != nClasses || len(m.intercept) != nClasses {
			return configErrorf(kind, "model_data", "ovr needs %d dual_coef rows and intercepts, have %d and %d",
				nClasses, len(m.dualCoef), len(m.intercept))
		}
		offset := 0
		for i := 0; i < nClasses; i++ {
			n := m.nSupport[i]
			if len(m.dualCoef[i]) != n || offset+n > nSV {
				return configErrorf(kind, "model_data", "ovr class %d does not fit the support vectors", i)
			}
			offset += n
		}
	}
	return nil
}

func (m *SVM) Kind() descriptor.Kind { return descriptor.KindSVM }

func (m *SVM) CheckWidth(n int) error { return checkWidth(m.Kind(), n, len(m.sv[0])) }

func (m *SVM) decision(x []float64, coef []float64, svs [][]float64, intercept float64) float64 {
	var sum float64
	for k, c := range coef {
		sum += c * m.kernel(x, svs[k])
	}
	return sum + intercept
}

// Decision returns the raw binary decision value. Positive selects the
// second class.
func (m *SVM) Decision(x features.Vector) (float64, error) {
	if err := checkLen(m.Kind(), x, len(m.sv[0])); err != nil {
		return 0, err
	}
	return m.decision(x, m.dualCoef[0], m.sv, m.intercept[0]), nil
}

func (m *SVM) Predict(x features.Vector) (Prediction, error) {
	if err := checkLen(m.Kind(), x, len(m.sv[0])); err != nil {
		return Prediction{}, err
	}
	nClasses := len(m.classes)

	if nClasses == 2 {
		win := 0
		if m.decision(x, m.dualCoef[0], m.sv, m.intercept[0]) > 0 {
			win = 1
		}
		return Prediction{Index: win, Label: m.classes[win]}, nil
	}

	if m.shape == ShapeOVO {
		// Pairs run i ascending, j > i ascending; the support-vector
		// offset advances by n_support[i] + n_support[j] per pair.
		votes := make([]float64, nClasses)
		offset, pair := 0, 0
		for i := 0; i < nClasses; i++ {
			for j := i + 1; j < nClasses; j++ {
				n := m.nSupport[i] + m.nSupport[j]
				svs := m.sv[offset : offset+n]
				if m.decision(x, m.dualCoef[pair], svs, m.intercept[pair]) > 0 {
					votes[j]++
				} else {
					votes[i]++
				}
				pair++
				offset += n
			}
		}
		win := argmax(votes)
		return Prediction{Index: win, Label: m.classes[win]}, nil
	}

	decisions := make([]float64, nClasses)
	offset := 0
	for i := 0; i < nClasses; i++ {
		n := m.nSupport[i]
		decisions[i] = m.decision(x, m.dualCoef[i], m.sv[offset:offset+n], m.intercept[i])
		offset += n
	}
	win := argmax(decisions)
	return Prediction{Index: win, Label: m.classes[win]}, nil
}
