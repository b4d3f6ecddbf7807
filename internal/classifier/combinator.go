package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/verdict"
)

// loadAll loads members concurrently. Members are independent, so one
// failure does not cancel the others; all failures are joined.
func loadAll(ctx context.Context, members []Classifier) error {
	errs := make([]error, len(members))
	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(i int, m Classifier) {
			defer wg.Done()
			errs[i] = m.Load(ctx)
		}(i, m)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func allLoaded(members []Classifier) bool {
	for _, m := range members {
		if !m.Loaded() {
			return false
		}
	}
	return true
}

// Ensemble is a majority vote over member classifiers. Members run one
// after another, never concurrently, because inference backends may not
// be reentrant.
type Ensemble struct {
	name    string
	members []Classifier
}

// NewEnsemble creates an ensemble of members.
func NewEnsemble(name string, members ...Classifier) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("ensemble %s: no members", name)
	}
	return &Ensemble{name: name, members: members}, nil
}

func (e *Ensemble) Name() string { return e.name }

// Members returns the member classifiers in vote order.
func (e *Ensemble) Members() []Classifier { return e.members }

func (e *Ensemble) Load(ctx context.Context) error {
	if err := loadAll(ctx, e.members); err != nil {
		return fmt.Errorf("ensemble %s: %w", e.name, err)
	}
	return nil
}

func (e *Ensemble) Loaded() bool { return allLoaded(e.members) }

// Predict counts correct against incorrect votes. The verdict is correct
// only with a strict majority, so an even split is incorrect. Any label
// other than the correct token votes incorrect. Confidence is the winning
// side's share of the votes.
func (e *Ensemble) Predict(p *pose.Pose) (*Result, error) {
	if !e.Loaded() {
		return nil, fmt.Errorf("ensemble %s: %w", e.name, ErrNotLoaded)
	}
	if p == nil {
		return nil, ErrMissingPose
	}

	var correct, incorrect int
	members := make([]*Result, 0, len(e.members))
	for _, m := range e.members {
		r, err := m.Predict(p)
		if err != nil {
			return nil, fmt.Errorf("ensemble %s: %w", e.name, err)
		}
		members = append(members, r)
		if r.Correct() {
			correct++
		} else {
			incorrect++
		}
	}

	label, wins := verdict.LabelIncorrect, incorrect
	if correct > incorrect {
		label, wins = verdict.LabelCorrect, correct
	}
	res := newResult(e.name, Prediction{
		Label:         label,
		Confidence:    float64(wins) / float64(len(e.members)),
		HasConfidence: true,
	})
	res.Members = members
	return res, nil
}

// Hybrid asks a statistical primary first and consults a rule-based
// fallback only when the primary says incorrect. The fallback can upgrade
// an incorrect verdict to correct but never downgrade a correct one.
type Hybrid struct {
	name     string
	primary  Classifier
	fallback Classifier
}

// NewHybrid creates a hybrid of primary and fallback.
func NewHybrid(name string, primary, fallback Classifier) (*Hybrid, error) {
	if primary == nil || fallback == nil {
		return nil, fmt.Errorf("hybrid %s: primary and fallback are required", name)
	}
	return &Hybrid{name: name, primary: primary, fallback: fallback}, nil
}

func (h *Hybrid) Name() string { return h.name }

func (h *Hybrid) Load(ctx context.Context) error {
	if err := loadAll(ctx, []Classifier{h.primary, h.fallback}); err != nil {
		return fmt.Errorf("hybrid %s: %w", h.name, err)
	}
	return nil
}

func (h *Hybrid) Loaded() bool { return h.primary.Loaded() && h.fallback.Loaded() }

// Predict returns the primary verdict when it is correct or when the
// fallback also disagrees, so an incorrect result carries the primary's
// text. Only a correct fallback verdict is returned in its place.
func (h *Hybrid) Predict(p *pose.Pose) (*Result, error) {
	if !h.Loaded() {
		return nil, fmt.Errorf("hybrid %s: %w", h.name, ErrNotLoaded)
	}
	if p == nil {
		return nil, ErrMissingPose
	}

	primary, err := h.primary.Predict(p)
	if err != nil {
		return nil, fmt.Errorf("hybrid %s: %w", h.name, err)
	}
	if primary.Correct() {
		return h.wrap(primary, primary), nil
	}

	fallback, err := h.fallback.Predict(p)
	if err != nil {
		return nil, fmt.Errorf("hybrid %s: %w", h.name, err)
	}
	if fallback.Correct() {
		return h.wrap(fallback, primary, fallback), nil
	}
	return h.wrap(primary, primary, fallback), nil
}

func (h *Hybrid) wrap(decided *Result, members ...*Result) *Result {
	res := *decided
	res.Members = members
	return &res
}
