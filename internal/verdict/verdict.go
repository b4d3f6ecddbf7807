// Package verdict maps raw classifier labels to what the user sees.
package verdict

// Raw label tokens shared by every engine and combinator.
const (
	LabelCorrect   = "correct"
	LabelIncorrect = "incorrect"
)

// Severity drives how a verdict is colored.
type Severity string

const (
	SeverityAwaiting  Severity = "awaiting"
	SeverityCorrect   Severity = "correct"
	SeverityIncorrect Severity = "incorrect"
	SeverityNeutral   Severity = "neutral"
)

// Color returns the conventional traffic-light color for s.
func (s Severity) Color() string {
	switch s {
	case SeverityAwaiting:
		return "yellow"
	case SeverityCorrect:
		return "green"
	case SeverityIncorrect:
		return "red"
	default:
		return "gray"
	}
}

// Presentation is the stable, user-facing form of a verdict.
type Presentation struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Correct  bool     `json:"correct"`
}

const (
	TextCorrect   = "Correct! Keep it up!"
	TextIncorrect = "Incorrect"
	TextAwaiting  = "Awaiting pose"
)

// Translate maps a raw label token to its presentation. Unknown labels
// pass through verbatim with a neutral severity instead of failing.
func Translate(label string) Presentation {
	switch label {
	case LabelCorrect:
		return Presentation{Text: TextCorrect, Severity: SeverityCorrect, Correct: true}
	case LabelIncorrect:
		return Presentation{Text: TextIncorrect, Severity: SeverityIncorrect}
	default:
		return Presentation{Text: label, Severity: SeverityNeutral}
	}
}

// Awaiting is shown while no pose is detected.
func Awaiting() Presentation {
	return Presentation{Text: TextAwaiting, Severity: SeverityAwaiting}
}

// WithMessage replaces the display text, keeping severity and
// correctness. An empty message leaves p unchanged.
func (p Presentation) WithMessage(msg string) Presentation {
	if msg != "" {
		p.Text = msg
	}
	return p
}
