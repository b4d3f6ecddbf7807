package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/pipeline"
	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/ui/theme"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Classify a single pose",
	Long:  "Classify one frame of landmarks read from --pose (a frame object or a bare landmark list; \"-\" reads stdin).",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("pose")
		asJSON, _ := cmd.Flags().GetBool("json")

		data, err := readInput(path)
		if err != nil {
			return fmt.Errorf("read pose: %w", err)
		}
		frame, err := pose.DecodeFrame(data)
		if err != nil {
			return err
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		res, err := pipeline.Evaluate(s.Classifier, frame.Landmarks)
		if err != nil {
			return fmt.Errorf("classify: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printResult(w io.Writer, res *classifier.Result) {
	fmt.Fprintln(w, theme.RenderVerdict(res.Presentation))
	fmt.Fprintf(w, "  model:       %s\n", res.Model)
	if res.Check != "" {
		fmt.Fprintf(w, "  check:       %s\n", res.Check)
	}
	if res.HasConfidence {
		fmt.Fprintf(w, "  confidence:  %.0f%%\n", res.Confidence*100)
	}
	for _, m := range res.Members {
		fmt.Fprintf(w, "  %-12s %s\n", m.Model+":", theme.SeverityStyle(m.Presentation.Severity).Render(m.Label))
	}
}

func init() {
	predictCmd.Flags().StringP("pose", "p", "-", "Pose JSON file (\"-\" for stdin)")
	predictCmd.Flags().Bool("json", false, "Print the result as JSON")
}
