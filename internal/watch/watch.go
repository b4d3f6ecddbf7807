// Package watch is the live verdict screen: it shows the latest verdict
// for a stream of frames with running totals.
package watch

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/pipeline"
	"github.com/abhisek/formcheck/internal/ui/components"
	"github.com/abhisek/formcheck/internal/ui/layout"
	"github.com/abhisek/formcheck/internal/ui/theme"
)

type verdictMsg pipeline.Verdict

type streamDoneMsg struct{}

// Model is the root Bubble Tea model of the watch screen.
type Model struct {
	exercise string
	model    string
	verdicts <-chan pipeline.Verdict

	last     *classifier.Result
	lastErr  error
	seq      int64
	frames   int
	correct  int
	awaiting int
	failed   int
	done     bool
	paused   bool
	waiting  bool // a waitForVerdict command is outstanding

	width  int
	height int
}

// New creates the screen for verdicts produced by model on exercise.
func New(exercise, model string, verdicts <-chan pipeline.Verdict) Model {
	return Model{exercise: exercise, model: model, verdicts: verdicts, waiting: true}
}

func (m Model) Init() tea.Cmd {
	return waitForVerdict(m.verdicts)
}

func waitForVerdict(ch <-chan pipeline.Verdict) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return streamDoneMsg{}
		}
		return verdictMsg(v)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "space":
			m.paused = !m.paused
			cmd := m.next()
			return m, cmd
		}
		return m, nil

	case verdictMsg:
		m.waiting = false
		m.record(pipeline.Verdict(msg))
		cmd := m.next()
		return m, cmd

	case streamDoneMsg:
		m.waiting = false
		m.done = true
		return m, nil
	}
	return m, nil
}

// next asks for another verdict unless paused, finished or already
// waiting for one.
func (m *Model) next() tea.Cmd {
	if m.paused || m.done || m.waiting {
		return nil
	}
	m.waiting = true
	return waitForVerdict(m.verdicts)
}

func (m *Model) record(v pipeline.Verdict) {
	m.frames++
	m.seq = v.Frame.Seq
	m.lastErr = v.Err
	if v.Err != nil {
		m.failed++
		return
	}
	m.last = v.Result
	switch {
	case pipeline.IsAwaiting(v.Result):
		m.awaiting++
	case v.Result.Correct():
		m.correct++
	}
}

// Stats returns frames seen, correct, awaiting and failed counts.
func (m Model) Stats() (frames, correct, awaiting, failed int) {
	return m.frames, m.correct, m.awaiting, m.failed
}

// Last returns the most recent successful result, or nil.
func (m Model) Last() *classifier.Result { return m.last }

// Done reports whether the verdict stream has ended.
func (m Model) Done() bool { return m.done }

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.exercise, m.model, m.width)
	hints := []layout.KeyHint{
		{Key: "Space", Description: "Pause"},
		{Key: "q", Description: "Quit"},
	}
	if m.paused {
		hints[0].Description = "Resume"
	}
	footer := layout.RenderFooter(hints, m.width)

	v.SetContent(layout.RenderFrame(header, m.body(), footer, m.width, m.height))
	return v
}

func (m Model) body() string {
	cardWidth := min(m.width-4, 60)

	var card string
	if m.last != nil {
		card = components.VerdictCard{Result: m.last, Width: cardWidth}.View()
	} else {
		card = theme.Hint.Render("waiting for frames…")
	}

	status := fmt.Sprintf("frame %d · %d seen · %d correct · %d awaiting · %d failed",
		m.seq, m.frames, m.correct, m.awaiting, m.failed)
	lines := []string{card, "", theme.Hint.Render(status)}
	if m.lastErr != nil {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Error).Render("error: "+m.lastErr.Error()))
	}
	if m.done {
		lines = append(lines, theme.Title.Render("replay finished"))
	} else if m.paused {
		lines = append(lines, theme.Title.Render("paused"))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Run starts the screen and blocks until the user quits.
func Run(exercise, model string, verdicts <-chan pipeline.Verdict) error {
	p := tea.NewProgram(New(exercise, model, verdicts))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
