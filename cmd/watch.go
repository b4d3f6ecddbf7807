package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/formcheck/internal/pipeline"
	"github.com/abhisek/formcheck/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Replay recorded frames through a classifier on a live screen",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("frames")
		fps, _ := cmd.Flags().GetFloat64("fps")
		if path == "" {
			return fmt.Errorf("--frames is required")
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open frames: %w", err)
		}
		frames, err := watch.ReadFrames(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		verdicts := pipeline.Run(ctx, s.Classifier, watch.Replay(ctx, frames, fps))
		return watch.Run(cfg.Exercise, cfg.Model, verdicts)
	},
}

func init() {
	watchCmd.Flags().StringP("frames", "f", "", "JSONL file with one pose frame per line")
	watchCmd.Flags().Float64("fps", 15, "Replay speed in frames per second (0 = as fast as possible)")
}
