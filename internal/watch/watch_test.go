package watch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/formcheck/internal/classifier"
	"github.com/abhisek/formcheck/internal/pipeline"
	"github.com/abhisek/formcheck/internal/pose"
	"github.com/abhisek/formcheck/internal/verdict"
)

func landmarks() string {
	pts := make([]string, pose.NumJoints)
	for i := range pts {
		pts[i] = `{"x":0.5,"y":0.5,"z":0}`
	}
	return "[" + strings.Join(pts, ",") + "]"
}

func TestReadFrames(t *testing.T) {
	input := `{"seq":4,"landmarks":` + landmarks() + `}

{"landmarks":null}
{"device":"cam","landmarks":[]}
`
	frames, err := ReadFrames(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, int64(4), frames[0].Seq)
	assert.NotNil(t, frames[0].Landmarks)
	assert.Equal(t, int64(2), frames[1].Seq)
	assert.Nil(t, frames[1].Landmarks)
	assert.Equal(t, "cam", frames[2].Device)
	assert.Nil(t, frames[2].Landmarks)
}

func TestReadFrames_Malformed(t *testing.T) {
	_, err := ReadFrames(strings.NewReader("{\"seq\":1}\n{oops}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReplay_EmitsInOrder(t *testing.T) {
	frames := []pose.Frame{{Seq: 1}, {Seq: 2}, {Seq: 3}}

	var got []int64
	for f := range Replay(context.Background(), frames, 0) {
		got = append(got, f.Seq)
	}
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestReplay_Paced(t *testing.T) {
	frames := []pose.Frame{{Seq: 1}, {Seq: 2}, {Seq: 3}}

	start := time.Now()
	n := 0
	for range Replay(context.Background(), frames, 50) {
		n++
	}
	assert.Equal(t, 3, n)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestReplay_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := Replay(ctx, []pose.Frame{{Seq: 1}, {Seq: 2}}, 1)

	<-out
	cancel()

	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("replay did not stop")
	}
}

func result(label string) *classifier.Result {
	return &classifier.Result{Model: "svm", Label: label, Presentation: verdict.Translate(label)}
}

func TestModel_RecordsVerdicts(t *testing.T) {
	ch := make(chan pipeline.Verdict)
	var m tea.Model = New("high_plank", "svm", ch)

	steps := []pipeline.Verdict{
		{Frame: pose.Frame{Seq: 1}, Result: result(verdict.LabelCorrect)},
		{Frame: pose.Frame{Seq: 2}, Result: pipeline.Awaiting("svm")},
		{Frame: pose.Frame{Seq: 3}, Err: errors.New("boom")},
		{Frame: pose.Frame{Seq: 4}, Result: result(verdict.LabelIncorrect)},
	}
	for _, v := range steps {
		var cmd tea.Cmd
		m, cmd = m.Update(verdictMsg(v))
		assert.NotNil(t, cmd, "keeps listening after seq %d", v.Frame.Seq)
	}

	wm := m.(Model)
	frames, correct, awaiting, failed := wm.Stats()
	assert.Equal(t, 4, frames)
	assert.Equal(t, 1, correct)
	assert.Equal(t, 1, awaiting)
	assert.Equal(t, 1, failed)
	require.NotNil(t, wm.Last())
	assert.Equal(t, verdict.LabelIncorrect, wm.Last().Label)

	m, _ = m.Update(streamDoneMsg{})
	assert.True(t, m.(Model).Done())
}

func TestModel_WaitsOnChannel(t *testing.T) {
	ch := make(chan pipeline.Verdict, 1)
	m := New("high_plank", "svm", ch)

	ch <- pipeline.Verdict{Frame: pose.Frame{Seq: 9}, Result: result(verdict.LabelCorrect)}
	msg := m.Init()()
	v, ok := msg.(verdictMsg)
	require.True(t, ok)
	assert.Equal(t, int64(9), v.Frame.Seq)

	close(ch)
	assert.IsType(t, streamDoneMsg{}, m.Init()())
}

func TestModel_PauseAndQuit(t *testing.T) {
	ch := make(chan pipeline.Verdict)
	var m tea.Model = New("high_plank", "svm", ch)

	m, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.Nil(t, cmd)
	assert.True(t, m.(Model).paused)

	// While paused, verdicts are recorded but the stream is not read again.
	m, cmd = m.Update(verdictMsg{Frame: pose.Frame{Seq: 1}, Result: result(verdict.LabelCorrect)})
	assert.Nil(t, cmd)

	m, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	assert.NotNil(t, cmd)
	assert.False(t, m.(Model).paused)

	_, cmd = m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	var m tea.Model = New("high_plank", "svm", make(chan pipeline.Verdict))
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = m.Update(verdictMsg{Frame: pose.Frame{Seq: 1}, Result: result(verdict.LabelCorrect)})

	assert.True(t, m.View().AltScreen)
	body := m.(Model).body()
	assert.Contains(t, body, verdict.TextCorrect)
	assert.Contains(t, body, "1 correct")

	m, _ = m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.True(t, m.View().AltScreen)
}
