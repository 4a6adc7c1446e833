package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/store"
)

type fakeRepo struct {
	sessions []store.SessionSummaryRecord
	answers  []store.AnswerRecord
	err      error
}

func (f *fakeRepo) QueryAnswers(context.Context, store.QueryOpts) ([]store.AnswerRecord, error) {
	return f.answers, nil
}

func (f *fakeRepo) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return f.sessions, f.err
}

func (f *fakeRepo) QuestionStats(context.Context) (map[int]*store.QuestionStat, error) {
	return nil, nil
}

func answer(session string, idx int, correct bool) store.AnswerRecord {
	return store.AnswerRecord{AnswerEventData: store.AnswerEventData{
		SessionID: session, QuestionIndex: idx, Prompt: "Prompt " + string(rune('A'+idx)), Correct: correct, Certainty: 0.5,
	}}
}

func loaded(t *testing.T, repo store.QueryRepo) *HistoryScreen {
	t.Helper()
	s := New(repo)
	s.Update(s.Init()())
	return s
}

func TestHistoryScreen_ListsSessions(t *testing.T) {
	repo := &fakeRepo{
		sessions: []store.SessionSummaryRecord{
			{SessionID: "b", Timestamp: time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local), Solved: 4, SolvedCorrectly: 3, DurationSecs: 95},
			{SessionID: "a", Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local), Solved: 2, SolvedCorrectly: 0, DurationSecs: 30},
		},
		// Most recent first, as the store returns them.
		answers: []store.AnswerRecord{answer("b", 2, true), answer("b", 1, false)},
	}
	s := loaded(t, repo)

	view := s.View(100, 30)
	for _, want := range []string{"Mar 02, 2026", "3/4 answered", "75% correct", "1:35"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(100, 30)
	first := strings.Index(view, "#2 Prompt B")
	second := strings.Index(view, "#3 Prompt C")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected answers in chronological order:\n%s", view)
	}
}

func TestHistoryScreen_EmptyAndError(t *testing.T) {
	s := loaded(t, &fakeRepo{})
	if !strings.Contains(s.View(80, 24), "No finished quizzes yet") {
		t.Error("expected empty message")
	}

	s = loaded(t, &fakeRepo{err: errors.New("disk gone")})
	if !strings.Contains(s.View(80, 24), "disk gone") {
		t.Error("expected error message")
	}
}

func TestHistoryScreen_NavigationBounds(t *testing.T) {
	s := loaded(t, &fakeRepo{sessions: []store.SessionSummaryRecord{{SessionID: "a"}, {SessionID: "b"}}})

	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d after up at top", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
