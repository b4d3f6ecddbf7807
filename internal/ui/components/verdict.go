package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/ui/theme"
)

// VerdictCard renders one classification result: the colored verdict
// text, which model decided it, and the confidence when the engine
// reports one. Combinator members are listed underneath.
type VerdictCard struct {
	Result *classifier.Result
	Width  int
}

// View renders the card.
func (c VerdictCard) View() string {
	if c.Result == nil {
		return ""
	}
	r := c.Result
	inner := max(c.Width-6, 10)

	lines := []string{
		theme.SeverityStyle(r.Presentation.Severity).Render(r.Presentation.Text),
		"",
		theme.Hint.Render("decided by " + r.Model),
	}
	if r.Check != "" {
		lines = append(lines, theme.Hint.Render("failed check: "+r.Check))
	}
	if r.HasConfidence {
		bar := NewConfidenceBar("confidence", r.Confidence, theme.SeverityColor(r.Presentation.Severity), inner)
		lines = append(lines, "", bar.View())
	}
	if len(r.Members) > 0 {
		lines = append(lines, "")
		for _, m := range r.Members {
			dot := theme.SeverityStyle(m.Presentation.Severity).Render("●")
			lines = append(lines, dot+" "+theme.Body.Render(m.Model)+" "+theme.Hint.Render(m.Label))
		}
	}

	return theme.Card.
		BorderForeground(theme.SeverityColor(r.Presentation.Severity)).
		Width(c.Width).
		Render(lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n")))
}
