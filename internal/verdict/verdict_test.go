package verdict

import "testing"

func TestTranslate(t *testing.T) {
	tests := []struct {
		label    string
		text     string
		severity Severity
		correct  bool
	}{
		{LabelCorrect, TextCorrect, SeverityCorrect, true},
		{LabelIncorrect, TextIncorrect, SeverityIncorrect, false},
		{"knees-bent", "knees-bent", SeverityNeutral, false},
		{"", "", SeverityNeutral, false},
	}
	for _, tt := range tests {
		got := Translate(tt.label)
		if got.Text != tt.text || got.Severity != tt.severity || got.Correct != tt.correct {
			t.Errorf("Translate(%q) = %+v, want {%q %q %v}", tt.label, got, tt.text, tt.severity, tt.correct)
		}
	}
}

func TestAwaitingIsDistinct(t *testing.T) {
	a := Awaiting()
	if a.Severity == Translate(LabelIncorrect).Severity || a.Severity == Translate(LabelCorrect).Severity {
		t.Errorf("awaiting severity %q collides with a verdict severity", a.Severity)
	}
	if a.Correct {
		t.Error("awaiting presentation must not be correct")
	}
	if a.Severity.Color() != "yellow" {
		t.Errorf("awaiting color = %q, want yellow", a.Severity.Color())
	}
}

func TestWithMessage(t *testing.T) {
	p := Translate(LabelIncorrect).WithMessage("Straighten your knees")
	if p.Text != "Straighten your knees" || p.Severity != SeverityIncorrect {
		t.Errorf("got %+v", p)
	}
	if got := p.WithMessage(""); got.Text != p.Text {
		t.Errorf("empty message changed text to %q", got.Text)
	}
}
