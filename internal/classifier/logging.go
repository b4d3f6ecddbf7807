package classifier

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/store"
)

// LoggingClassifier is a decorator that records every prediction as an
// event.
type LoggingClassifier struct {
	inner     Classifier
	eventRepo store.EventRepo
	sessionID string
	exercise  string
}

// WithLogging wraps a Classifier with event logging.
func WithLogging(c Classifier, repo store.EventRepo, sessionID, exercise string) Classifier {
	return &LoggingClassifier{inner: c, eventRepo: repo, sessionID: sessionID, exercise: exercise}
}

func (l *LoggingClassifier) Name() string { return l.inner.Name() }

func (l *LoggingClassifier) Load(ctx context.Context) error { return l.inner.Load(ctx) }

func (l *LoggingClassifier) Loaded() bool { return l.inner.Loaded() }

func (l *LoggingClassifier) Predict(p *pose.Pose) (*Result, error) {
	start := time.Now()

	res, err := l.inner.Predict(p)

	data := store.VerdictEventData{
		SessionID: l.sessionID,
		Exercise:  l.exercise,
		Model:     l.inner.Name(),
		Latency:   time.Since(start),
		Success:   err == nil,
	}

	if res != nil {
		data.DecidedBy = res.Model
		data.Label = res.Label
		data.Text = res.Presentation.Text
		data.Check = res.Check
		data.Confidence = res.Confidence
		data.Correct = res.Correct()
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the prediction if logging fails.
	if logErr := l.eventRepo.AppendVerdict(context.Background(), data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log verdict event: %v\n", logErr)
	}

	return res, err
}
