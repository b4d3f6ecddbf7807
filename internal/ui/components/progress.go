package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/formcheck/internal/ui/theme"
)

// ConfidenceBar displays a classifier confidence as a horizontal bar.
type ConfidenceBar struct {
	Label   string
	Percent float64
	Color   color.Color
	Width   int
}

// NewConfidenceBar creates a bar filled to percent (0..1) in fill.
func NewConfidenceBar(label string, percent float64, fill color.Color, width int) ConfidenceBar {
	return ConfidenceBar{
		Label:   label,
		Percent: percent,
		Color:   fill,
		Width:   width,
	}
}

// View renders the bar followed by the percentage.
func (b ConfidenceBar) View() string {
	var result string
	if b.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(b.Label) + "  "
	}

	const percentWidth = 6 // " %4d%%"
	barWidth := max(b.Width-lipgloss.Width(result)-percentWidth, 4)

	filled := min(max(int(float64(barWidth)*b.Percent), 0), barWidth)
	empty := barWidth - filled

	result += lipgloss.NewStyle().Background(b.Color).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))
	result += lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf(" %4d%%", int(b.Percent*100+0.5)))

	return result
}
