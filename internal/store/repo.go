package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Model   string    // exact model name
	Session string    // exact session id
}

// VerdictEventData captures a single classifier prediction.
type VerdictEventData struct {
	SessionID    string
	Exercise     string
	Model        string
	DecidedBy    string // member that decided, for combinators
	Label        string
	Text         string
	Check        string
	Confidence   float64
	Correct      bool
	Latency      time.Duration
	Success      bool
	ErrorMessage string
}

// VerdictEventRecord is a stored prediction event.
type VerdictEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	VerdictEventData
}

// ModelStats aggregates the verdicts recorded for one model.
type ModelStats struct {
	Model      string
	Total      int
	Correct    int
	Failed     int
	AvgLatency time.Duration
}

// CorrectRate is the share of successful predictions that were correct.
func (s ModelStats) CorrectRate() float64 {
	ok := s.Total - s.Failed
	if ok <= 0 {
		return 0
	}
	return float64(s.Correct) / float64(ok)
}

// EventRepo provides append and query access to verdict events.
type EventRepo interface {
	// AppendVerdict records a prediction event.
	AppendVerdict(ctx context.Context, data VerdictEventData) error

	// QueryVerdicts returns events newest first.
	QueryVerdicts(ctx context.Context, opts QueryOpts) ([]VerdictEventRecord, error)

	// VerdictStatsByModel aggregates events per model, ordered by name.
	VerdictStatsByModel(ctx context.Context, opts QueryOpts) ([]ModelStats, error)
}
