package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/formcheck/internal/verdict"
)

// Color palette. Verdict colors follow traffic-light convention.
var (
	Primary = lipgloss.Color("#0EA5E9") // Sky
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Error   = lipgloss.Color("#EF4444") // Red
	Warning = lipgloss.Color("#EAB308") // Yellow
	Neutral = lipgloss.Color("#94A3B8") // Slate
	Text    = lipgloss.Color("#F8FAFC") // White
	TextDim = lipgloss.Color("#94A3B8") // Slate
	BgCard  = lipgloss.Color("#1E293B") // Dark Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// SeverityColor maps a verdict severity to its palette color.
func SeverityColor(s verdict.Severity) color.Color {
	switch s {
	case verdict.SeverityCorrect:
		return Success
	case verdict.SeverityIncorrect:
		return Error
	case verdict.SeverityAwaiting:
		return Warning
	default:
		return Neutral
	}
}

// SeverityStyle is the bold text style for a verdict of severity s.
func SeverityStyle(s verdict.Severity) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(SeverityColor(s)).
		Bold(true)
}

// RenderVerdict renders a presentation's text in its severity color.
func RenderVerdict(p verdict.Presentation) string {
	return SeverityStyle(p.Severity).Render(p.Text)
}
