package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestTally(t *testing.T) {
	assert.Equal(t, "0/0", Tally(0, 0))
	assert.Equal(t, "3/7", Tally(3, 7))
}

func TestCompact(t *testing.T) {
	assert.True(t, Compact(80, 40))
	assert.True(t, Compact(120, 24))
	assert.False(t, Compact(120, 40))
}

func TestRenderFrame_BodyGetsSpaceBetweenStrips(t *testing.T) {
	header := RenderHeader("QUIZ", 0, 0, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "End"}}, 80)

	var gotW, gotH int
	frame := RenderFrame(header, footer, 80, 30, func(w, h int) string {
		gotW, gotH = w, h
		return "question card"
	})

	assert.Equal(t, 80, gotW)
	assert.Equal(t, 30-lipgloss.Height(header)-lipgloss.Height(footer), gotH)
	assert.Equal(t, 30, lipgloss.Height(frame))
	assert.Contains(t, frame, "question card")
}

func TestRenderMinSizeMessage(t *testing.T) {
	msg := RenderMinSizeMessage(40, 10)
	assert.Contains(t, msg, "Terminal too small")
	assert.Contains(t, msg, "40 x 10")
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(MinWidth-1, MinHeight))
	assert.True(t, IsTooSmall(MinWidth, MinHeight-1))
	assert.False(t, IsTooSmall(MinWidth, MinHeight))
}

func TestRenderHeader_TallyAfterFirstAnswer(t *testing.T) {
	h := RenderHeader("QUIZ", 0, 0, 80)
	assert.NotContains(t, h, "answered")

	h = RenderHeader("QUIZ", 2, 3, 80)
	assert.Contains(t, h, "✓ 2")
	assert.Contains(t, h, "3 answered")
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "End"}}, 80)
	assert.True(t, strings.Contains(f, "Enter") && strings.Contains(f, "Submit"))
	assert.Contains(t, f, "End")
}
