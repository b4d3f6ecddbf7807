package layout

import (
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("high_plank", "ensemble", 80)
	assert.Contains(t, out, "FormCheck")
	assert.Contains(t, out, "high_plank")
	assert.Contains(t, out, "ensemble")
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("high_plank", "svm", 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 80)
	out := RenderFrame(header, "body", footer, 80, 24)
	assert.Equal(t, 24, lipgloss.Height(out))
	assert.Contains(t, out, "Quit")
}
