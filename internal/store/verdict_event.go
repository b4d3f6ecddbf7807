package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const verdictTable = "verdict_events"

// eventRepo implements EventRepo with the ent SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *eventRepo) AppendVerdict(ctx context.Context, data VerdictEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(verdictTable).
		Columns("sequence", "timestamp", "session_id", "exercise", "model", "decided_by",
			"label", "text", "check_name", "confidence", "correct", "latency_us",
			"success", "error_message").
		Values(seqNum, time.Now().UTC().UnixMilli(), data.SessionID, data.Exercise, data.Model, data.DecidedBy,
			data.Label, data.Text, data.Check, data.Confidence, data.Correct, data.Latency.Microseconds(),
			data.Success, data.ErrorMessage).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save verdict event: %w", err)
	}
	return nil
}

// where applies the shared QueryOpts filters.
func where(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(s.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(s.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(s.C("timestamp"), opts.From.UTC().UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(s.C("timestamp"), opts.To.UTC().UnixMilli()))
	}
	if opts.Model != "" {
		preds = append(preds, entsql.EQ(s.C("model"), opts.Model))
	}
	if opts.Session != "" {
		preds = append(preds, entsql.EQ(s.C("session_id"), opts.Session))
	}
	if len(preds) > 0 {
		s.Where(entsql.And(preds...))
	}
	return s
}

func (r *eventRepo) QueryVerdicts(ctx context.Context, opts QueryOpts) ([]VerdictEventRecord, error) {
	t := entsql.Table(verdictTable)
	s := builder().Select(
		t.C("id"), t.C("sequence"), t.C("timestamp"), t.C("session_id"), t.C("exercise"),
		t.C("model"), t.C("decided_by"), t.C("label"), t.C("text"), t.C("check_name"),
		t.C("confidence"), t.C("correct"), t.C("latency_us"), t.C("success"), t.C("error_message"),
	).From(t)
	where(s, opts).OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}

	query, args := s.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query verdict events: %w", err)
	}
	defer rows.Close()

	var out []VerdictEventRecord
	for rows.Next() {
		var (
			rec       VerdictEventRecord
			ts        int64
			latencyUs int64
		)
		err := rows.Scan(
			&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Exercise,
			&rec.Model, &rec.DecidedBy, &rec.Label, &rec.Text, &rec.Check,
			&rec.Confidence, &rec.Correct, &latencyUs, &rec.Success, &rec.ErrorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan verdict event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		rec.Latency = time.Duration(latencyUs) * time.Microsecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdict events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) VerdictStatsByModel(ctx context.Context, opts QueryOpts) ([]ModelStats, error) {
	t := entsql.Table(verdictTable)
	s := builder().Select(
		t.C("model"),
		entsql.As(entsql.Count("*"), "total"),
		entsql.As(entsql.Sum(t.C("correct")), "correct_total"),
		entsql.As(entsql.Sum(t.C("success")), "success_total"),
		entsql.As(entsql.Avg(t.C("latency_us")), "avg_latency_us"),
	).From(t)
	where(s, opts).GroupBy(t.C("model")).OrderBy(t.C("model"))

	query, args := s.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query verdict stats: %w", err)
	}
	defer rows.Close()

	var out []ModelStats
	for rows.Next() {
		var (
			st         ModelStats
			correct    sql.NullInt64
			success    sql.NullInt64
			avgLatency sql.NullFloat64
		)
		if err := rows.Scan(&st.Model, &st.Total, &correct, &success, &avgLatency); err != nil {
			return nil, fmt.Errorf("scan verdict stats: %w", err)
		}
		st.Correct = int(correct.Int64)
		st.Failed = st.Total - int(success.Int64)
		st.AvgLatency = time.Duration(avgLatency.Float64) * time.Microsecond
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verdict stats: %w", err)
	}
	return out, nil
}
