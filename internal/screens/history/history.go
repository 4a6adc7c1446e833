package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/ui/layout"
	"github.com/abhisek/drivequiz/internal/ui/theme"
)

// maxSessions bounds how many finished sessions are listed.
const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []store.SessionSummaryRecord
	Answers  map[string][]store.AnswerRecord // sessionID → answers
	Err      error
}

// HistoryScreen displays past quiz sessions and their answers.
type HistoryScreen struct {
	repo     store.QueryRepo
	sessions []store.SessionSummaryRecord
	answers  map[string][]store.AnswerRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.QueryRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := repo.QuerySessionSummaries(ctx, store.QueryOpts{Limit: maxSessions})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Answers are optional detail; a failure still shows the sessions.
		bySession := make(map[string][]store.AnswerRecord)
		answers, err := repo.QueryAnswers(ctx, store.QueryOpts{})
		if err == nil {
			for i := len(answers) - 1; i >= 0; i-- {
				a := answers[i]
				bySession[a.SessionID] = append(bySession[a.SessionID], a)
			}
		}
		return historyLoadedMsg{Sessions: sessions, Answers: bySession}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.answers = msg.Answers
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No finished quizzes yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		dateStr := sess.Timestamp.Local().Format("Jan 02, 2006 15:04")
		durationStr := fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60)

		var accuracy float64
		if sess.Solved > 0 {
			accuracy = float64(sess.SolvedCorrectly) / float64(sess.Solved) * 100
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %s  %s answered  %.0f%% correct",
			prefix, dateStr, durationStr, layout.Tally(sess.SolvedCorrectly, sess.Solved), accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAnswers(sess.SessionID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderAnswers(sessionID string, width int) string {
	answers := s.answers[sessionID]
	if len(answers) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
				Render("    No answers recorded")) + "\n"
	}

	var b strings.Builder
	for _, a := range answers {
		mark, style := "✗", theme.Incorrect
		if a.Correct {
			mark, style = "✓", theme.Correct
		}
		prompt := a.Prompt
		if r := []rune(prompt); len(r) > 48 {
			prompt = string(r[:47]) + "…"
		}
		line := fmt.Sprintf("    %s #%d %s  (certainty %.2g)", mark, a.QuestionIndex+1, prompt, a.Certainty)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.UnsetBold().Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
