// Package pipeline runs the per-frame flow: pose → features → classifier
// → presentation. A frame without a usable pose never reaches feature
// extraction; it yields the neutral "awaiting pose" result instead.
package pipeline

import (
	"context"
	"errors"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/geom"
	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/verdict"
)

// Awaiting is the result reported while no pose is available.
func Awaiting(model string) *classifier.Result {
	return &classifier.Result{Model: model, Presentation: verdict.Awaiting()}
}

// IsAwaiting reports whether r is the no-pose result.
func IsAwaiting(r *classifier.Result) bool {
	return r != nil && r.Label == "" && r.Presentation.Severity == verdict.SeverityAwaiting
}

// Evaluate classifies one pose. A nil pose, or one too degenerate to
// build a body frame from, is reported as awaiting rather than as an
// error. Every other failure, including ErrNotLoaded, is returned.
func Evaluate(c classifier.Classifier, p *pose.Pose) (*classifier.Result, error) {
	if p == nil {
		return Awaiting(c.Name()), nil
	}
	res, err := c.Predict(p)
	if errors.Is(err, classifier.ErrMissingPose) || errors.Is(err, geom.ErrDegenerateFrame) {
		return Awaiting(c.Name()), nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Verdict is the outcome for one frame.
type Verdict struct {
	Frame  pose.Frame
	Result *classifier.Result
	Err    error
}

// Run classifies frames from in, one at a time and in order, until in is
// closed or ctx is done. The returned channel is closed when Run stops.
func Run(ctx context.Context, c classifier.Classifier, in <-chan pose.Frame) <-chan Verdict {
	out := make(chan Verdict)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case f, ok := <-in:
				if !ok {
					return
				}
				res, err := Evaluate(c, f.Landmarks)
				select {
				case out <- Verdict{Frame: f, Result: res, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
