package descriptor

// KNNParams are the nearest-neighbor hyperparameters.
type KNNParams struct {
	Metric     string  `json:"metric"`
	NNeighbors int     `json:"n_neighbors"`
	P          float64 `json:"p"`
	Weights    string  `json:"weights"`
}

// KNNData holds the stored training set. Y indexes into the class list.
type KNNData struct {
	X [][]float64 `json:"X"`
	Y []int       `json:"y"`
}

// Tree is one decision tree in parallel-array form. A node whose
// ChildrenLeft is -1 is a leaf; Value holds per-class vote counts.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// ForestData holds the trees of a random forest. NFeatures is the
// training width; when zero only the split indices bound the width.
type ForestData struct {
	Forest    []Tree `json:"forest"`
	NFeatures int    `json:"n_features,omitempty"`
}

// LogisticData holds a linear model: one coefficient row per class, or a
// single row for the binary case.
type LogisticData struct {
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// SVMParams are the support vector machine hyperparameters that affect
// inference.
type SVMParams struct {
	DecisionFunctionShape string `json:"decision_function_shape"`
}

// SVMData holds a dual-form support vector machine.
type SVMData struct {
	Kernel         string      `json:"kernel"`
	SupportVectors [][]float64 `json:"support_vectors"`
	DualCoef       [][]float64 `json:"dual_coef"`
	Intercept      []float64   `json:"intercept"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         float64     `json:"degree"`
	NSupport       []int       `json:"n_support"`
}

// Check is one bilateral angle constraint of the rule engine.
type Check struct {
	Name    string    `json:"name"`
	Left    [3]string `json:"left"`
	Right   [3]string `json:"right"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Message string    `json:"message"`
}

// EmpiricalData holds the ordered rule set.
type EmpiricalData struct {
	Checks []Check `json:"checks"`
}
