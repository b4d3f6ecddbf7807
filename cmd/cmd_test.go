package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/config"
	"github.com/abhisek/formcheck/internal/descriptor"
	"github.com/abhisek/formcheck/internal/verdict"
)

func newFlagCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		c.Flags().String(f.Name, "", f.Usage)
	})
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestApplyFlagOverrides(t *testing.T) {
	c := config.DefaultConfig()
	c.ModelsURL = "https://models.example.com"

	applyFlagOverrides(newFlagCmd(t, "--model", "svm", "--models-dir", "/srv/models", "--db", "/tmp/x.db"), &c)

	assert.Equal(t, "svm", c.Model)
	assert.Equal(t, "high_plank", c.Exercise)
	assert.Equal(t, "/srv/models", c.ModelsDir)
	assert.Empty(t, c.ModelsURL, "--models-dir wins over an env URL")
	assert.Equal(t, "/tmp/x.db", c.DBPath)
}

func TestApplyFlagOverrides_NoFlags(t *testing.T) {
	c := config.DefaultConfig()
	applyFlagOverrides(newFlagCmd(t), &c)
	assert.Equal(t, config.DefaultConfig(), c)
}

func TestDescriptorSource(t *testing.T) {
	cfg = config.DefaultConfig()
	_, ok := descriptorSource().(descriptor.FSSource)
	assert.True(t, ok)

	cfg.ModelsURL = "http://localhost:8080/models"
	src, ok := descriptorSource().(*descriptor.HTTPSource)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8080/models", src.BaseURL)
}

func TestPrintResult(t *testing.T) {
	res := &classifier.Result{
		Model:         "ensemble",
		Label:         verdict.LabelCorrect,
		Confidence:    0.5,
		HasConfidence: true,
		Presentation:  verdict.Translate(verdict.LabelCorrect),
		Members: []*classifier.Result{
			{Model: "knn", Label: verdict.LabelCorrect, Presentation: verdict.Translate(verdict.LabelCorrect)},
		},
	}

	var buf bytes.Buffer
	printResult(&buf, res)
	out := buf.String()
	assert.Contains(t, out, verdict.TextCorrect)
	assert.Contains(t, out, "model:       ensemble")
	assert.Contains(t, out, "confidence:  50%")
	assert.Contains(t, out, "knn:")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
