package components

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/ui/theme"
	"github.com/abhisek/formcheck/internal/verdict"
)

func TestConfidenceBar_View(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{"empty", 0, "0%"},
		{"half", 0.5, "50%"},
		{"full", 1, "100%"},
		{"overflow fills bar", 1.7, "170%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewConfidenceBar("confidence", tt.percent, theme.Success, 40).View()
			assert.Contains(t, out, tt.want)
			assert.Equal(t, 40, lipgloss.Width(out))
		})
	}
}

func TestVerdictCard_View(t *testing.T) {
	assert.Empty(t, VerdictCard{}.View())

	res := &classifier.Result{
		Model:         "ensemble",
		Label:         verdict.LabelIncorrect,
		Confidence:    0.75,
		HasConfidence: true,
		Presentation:  verdict.Translate(verdict.LabelIncorrect),
		Members: []*classifier.Result{
			{Model: "knn", Label: verdict.LabelIncorrect, Presentation: verdict.Translate(verdict.LabelIncorrect)},
			{Model: "svm", Label: verdict.LabelCorrect, Presentation: verdict.Translate(verdict.LabelCorrect)},
		},
	}
	out := VerdictCard{Result: res, Width: 50}.View()
	assert.Contains(t, out, verdict.TextIncorrect)
	assert.Contains(t, out, "decided by ensemble")
	assert.Contains(t, out, "75%")
	assert.Contains(t, out, "knn")
	assert.Contains(t, out, "svm")
}
