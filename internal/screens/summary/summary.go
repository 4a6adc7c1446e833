package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/drivequiz/internal/quiz"
	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/ui/components"
	"github.com/abhisek/drivequiz/internal/ui/layout"
	"github.com/abhisek/drivequiz/internal/ui/theme"
)

// SummaryScreen displays the totals of the current run.
type SummaryScreen struct {
	summary qz.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary qz.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")

	title := "Quiz complete!"
	if sum.Solved == 0 {
		title = "No questions answered"
	}
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center.Foreground(theme.TextDim).Render(fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Answered: %d        Correct: %d        Accuracy: %.0f%%",
		sum.Solved, sum.SolvedCorrectly, sum.Accuracy()*100)
	b.WriteString(center.Foreground(theme.Text).Render(statsLine))
	b.WriteString("\n\n")

	if sum.Solved > 0 {
		bar := components.ProgressBar{
			Label:       "Score",
			Percent:     sum.Accuracy(),
			ShowPercent: true,
			Width:       min(width-8, 60),
			Fill:        theme.Success,
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render(
		"Questions you answered confidently will come up less often."))

	return b.String()
}
