package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/formcheck/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded verdict events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent verdicts",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")
		model, _ := cmd.Flags().GetString("only-model")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Model: model, Session: sessionID}
		if since > 0 {
			opts.From = time.Now().Add(-since)
		}

		ctx := context.Background()
		events, err := s.EventRepo().QueryVerdicts(ctx, opts)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No verdict events found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-20s  %-20s  %-10s  %-18s  %-6s  %s\n",
			"ID", "Timestamp", "Model", "Decided By", "Label", "Check", "µs", "OK")
		fmt.Println(strings.Repeat("─", 116))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			label := e.Label
			if !e.Success {
				label = "error"
			}
			fmt.Printf("%-6d  %-19s  %-20s  %-20s  %-10s  %-18s  %-6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(e.Model, 20),
				truncate(e.DecidedBy, 20),
				truncate(label, 10),
				truncate(e.Check, 18),
				e.Latency.Microseconds(),
				ok,
			)
		}
		return nil
	},
}

var eventsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-model verdict counts and latency",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().VerdictStatsByModel(ctx, store.QueryOpts{Session: sessionID})
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No verdicts recorded yet.")
			return nil
		}

		fmt.Printf("%-22s  %8s  %8s  %8s  %9s  %10s\n",
			"Model", "Frames", "Correct", "Failed", "Correct%", "Avg µs")
		fmt.Println(strings.Repeat("─", 74))

		var total, correct, failed int
		for _, st := range stats {
			fmt.Printf("%-22s  %8d  %8d  %8d  %8.1f%%  %10d\n",
				truncate(st.Model, 22), st.Total, st.Correct, st.Failed,
				st.CorrectRate()*100, st.AvgLatency.Microseconds())
			total += st.Total
			correct += st.Correct
			failed += st.Failed
		}

		fmt.Println(strings.Repeat("─", 74))
		fmt.Printf("%-22s  %8d  %8d  %8d\n", "TOTAL", total, correct, failed)
		return nil
	},
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	eventsListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsListCmd.Flags().StringP("session", "s", "", "Only events from this session id")
	eventsListCmd.Flags().String("only-model", "", "Only events recorded for this model")
	eventsListCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 1h)")
	eventsStatsCmd.Flags().StringP("session", "s", "", "Only events from this session id")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsStatsCmd)
}
