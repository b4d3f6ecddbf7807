// Package classifier implements the exercise-form classifiers: the
// statistical engines (KNN, random forest, logistic regression, SVM), the
// empirical rule engine, an opaque neural scorer, and the ensemble and
// hybrid combinators built on top of them.
//
// Engines are pure functions of a feature vector. A Model binds an engine
// to its descriptor source and feature spec and owns the load lifecycle.
package classifier

import (
	"context"

	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/verdict"
)

// Classifier is the capability shared by models and combinators.
type Classifier interface {
	// Name is the registry name, e.g. "knn" or "hybrid".
	Name() string

	// Load fetches and validates everything Predict needs. Loading an
	// already loaded classifier is a no-op.
	Load(ctx context.Context) error

	// Loaded reports whether Predict can be called.
	Loaded() bool

	// Predict classifies one pose. It returns ErrNotLoaded before Load
	// has completed and ErrMissingPose for a nil pose.
	Predict(p *pose.Pose) (*Result, error)
}

// Result is a classifier verdict with its presentation.
type Result struct {
	// Model names the classifier whose verdict this is. For combinators
	// it is the member that decided.
	Model string `json:"model"`
	Label string `json:"label"`

	Confidence    float64 `json:"confidence,omitempty"`
	HasConfidence bool    `json:"has_confidence"`

	// Check is the first violated rule, set by the empirical engine.
	Check string `json:"check,omitempty"`

	Presentation verdict.Presentation `json:"presentation"`

	// Members holds the member verdicts of a combinator, in call order.
	Members []*Result `json:"members,omitempty"`
}

// Correct reports whether the raw label is the correct-form token.
func (r *Result) Correct() bool {
	return r != nil && r.Label == verdict.LabelCorrect
}

func newResult(model string, pred Prediction) *Result {
	return &Result{
		Model:         model,
		Label:         pred.Label,
		Confidence:    pred.Confidence,
		HasConfidence: pred.HasConfidence,
		Check:         pred.Check,
		Presentation:  verdict.Translate(pred.Label).WithMessage(pred.Message),
	}
}
