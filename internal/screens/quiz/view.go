package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/media"
	"github.com/abhisek/drivequiz/internal/ui/layout"
	"github.com/abhisek/drivequiz/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.pres == nil {
		return renderLoading(width)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	return s.renderQuestion(width, height)
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	p := s.pres
	inner := max(width-4, 20)

	var b strings.Builder

	// Info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", p.Index+1, s.engine.Pool().Len()))

	weight := s.engine.Weights()[p.Index]
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("weight " + formatWeight(weight))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		PaddingLeft(2).
		Foreground(theme.Text).
		Bold(true).
		Render(p.Question.Prompt))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  (Correct answers: %d)", p.Question.CorrectCount)))
	b.WriteString("\n\n")

	if m := s.renderMedia(inner); m != "" {
		b.WriteString(m)
		b.WriteString("\n\n")
	}

	b.WriteString(s.checklist.View())
	b.WriteString("\n")

	label := "  Certainty: "
	if s.focus == focusCertainty && s.result == nil {
		label = theme.Selected.Render(label)
	} else {
		label = lipgloss.NewStyle().Foreground(theme.TextDim).Render(label)
	}
	b.WriteString(label + s.input.View())
	b.WriteString("\n")

	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(s.renderResult())
	}
	if s.warnMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("  ⚠ " + s.warnMsg))
		b.WriteString("\n")
	}

	return b.String()
}

func (s *QuizScreen) renderMedia(width int) string {
	q := s.pres.Question
	switch {
	case s.mediaLoading:
		return theme.Hint.Render("  Loading media...")
	case s.media != nil:
		text := string(s.media.Kind) + ": " + s.media.Path
		if s.media.Info != nil {
			if desc := s.media.Info.String(); desc != "" {
				text += "  (" + desc + ")"
			}
		}
		return "  " + theme.MediaCard.MaxWidth(width).Render(text)
	case s.fetcher == nil && q.Video != "":
		return theme.Hint.Render("  " + string(media.KindVideo) + ": " + q.Video)
	case s.fetcher == nil && q.Image != "":
		return theme.Hint.Render("  " + string(media.KindImage) + ": " + q.Image)
	}
	return ""
}

func (s *QuizScreen) renderResult() string {
	r := s.result
	var b strings.Builder

	if r.Correct {
		b.WriteString(theme.Correct.Render("  ✓ Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("  ✗ Not quite"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			"  Correct answers: " + strings.Join(r.CorrectLabels, ", ")))
	}
	b.WriteString("\n")

	weightLine := fmt.Sprintf("  Weight %s", formatWeight(r.WeightAfter))
	if r.WeightAfter != r.WeightBefore {
		weightLine = fmt.Sprintf("  Weight %s → %s", formatWeight(r.WeightBefore), formatWeight(r.WeightAfter))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		weightLine + "    Score " + layout.Tally(r.Counters.SolvedCorrectly, r.Counters.Solved)))
	b.WriteString("\n")
	return b.String()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', 4, 64)
}

// renderQuitConfirm renders the end-of-quiz confirmation dialog.
func renderQuitConfirm(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(center.Foreground(theme.Text).Bold(true).Render("End the quiz?"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render("Weights are saved after every correct answer."))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Success).Render("[Y] Yes, show summary"))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Drawing a question...")
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press Esc to go back.", errMsg))
}
