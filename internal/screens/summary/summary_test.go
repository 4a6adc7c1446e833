package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/drivequiz/internal/quiz"
	"github.com/abhisek/drivequiz/internal/router"
)

func testSummary() qz.Summary {
	return qz.Summary{
		SessionID: "s-1",
		Duration:  3*time.Minute + 7*time.Second,
		Counters:  qz.Counters{Solved: 8, SolvedCorrectly: 6},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Quiz Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary())
	view := s.View(80, 24)
	for _, want := range []string{"3:07", "Answered: 8", "Correct: 6", "75%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSummaryScreen_EmptyRun(t *testing.T) {
	s := New(qz.Summary{})
	view := s.View(80, 24)
	if !strings.Contains(view, "No questions answered") {
		t.Errorf("expected empty-run title, got:\n%s", view)
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, k := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testSummary())
		_, cmd := s.Update(tea.KeyPressMsg{Code: k})
		if cmd == nil {
			t.Fatalf("expected a command for key %v", k)
		}
		if _, ok := cmd().(router.PopToRootMsg); !ok {
			t.Errorf("key %v: expected PopToRootMsg", k)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	hints := s.KeyHints()
	if len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
