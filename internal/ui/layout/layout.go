package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/ui/theme"
)

// A question card with four options, the certainty line and feedback
// needs about this much room.
const (
	MinWidth  = 64
	MinHeight = 20

	HeaderHeight = 3
	FooterHeight = 3

	compactWidth  = 100
	compactHeight = 30
)

// Tally formats a correct/solved counter the way the quiz reports it.
func Tally(correct, solved int) string {
	return fmt.Sprintf("%d/%d", correct, solved)
}

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Compact reports whether decorative panels should give way to the
// essentials.
func Compact(width, height int) bool {
	return width < compactWidth || height < compactHeight
}

// IsTooSmall reports whether a question card cannot be drawn.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks for a larger terminal, centred in whatever
// space there is.
func RenderMinSizeMessage(width, height int) string {
	msg := theme.Warning.Render("Terminal too small") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("A question card needs %d x %d.", MinWidth, MinHeight)) + "\n" +
		theme.Hint.Render(fmt.Sprintf("This terminal is %d x %d.", width, height))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// bar is the rounded strip used for both header and footer.
func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader renders the title strip. The tally on the right is hidden
// until the first answer is graded.
func RenderHeader(title string, correct, solved int, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" DriveQuiz")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := ""
	if solved > 0 {
		right = theme.Correct.Render(fmt.Sprintf("✓ %d", correct)) +
			theme.Hint.Render(" / ") +
			lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d answered ", solved))
	}

	// Title centred in the strip; the tally takes whatever is left.
	inner := max(width-4, 0)
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	gapL := max((inner-cw)/2-lw, 1)
	gapR := max(inner-lw-gapL-cw-rw, 1)

	return bar(width).Render(left + strings.Repeat(" ", gapL) + center + strings.Repeat(" ", gapR) + right)
}

// RenderFooter lists key hints separated by dots.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+theme.Hint.Render(h.Description))
	}
	return bar(width).Render(" " + strings.Join(parts, theme.Hint.Render("  ·  ")))
}

// RenderFrame stacks header, body and footer. body is called with the
// space left between the two strips and is padded to fill it.
func RenderFrame(header, footer string, width, height int, body func(w, h int) string) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(body(width, h))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}
