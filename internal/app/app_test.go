package app

import (
	"math/rand/v2"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivequiz/internal/pool"
	qz "github.com/abhisek/drivequiz/internal/quiz"
	quizscreen "github.com/abhisek/drivequiz/internal/screens/quiz"
)

type nopSaver struct{}

func (nopSaver) Save([]float64) error { return nil }

func testOptions(t *testing.T) Options {
	t.Helper()
	p := &pool.Pool{Questions: []pool.Question{
		{Prompt: "Minimum following distance?", Options: []pool.Option{{Text: "2 seconds", Correct: true}, {Text: "1 car length"}}, CorrectCount: 1},
	}}
	eng, err := qz.NewEngine(qz.Options{Pool: p, Weights: []float64{1}, Store: nopSaver{}, Rand: rand.New(rand.NewPCG(1, 1))})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return Options{Engine: eng, Quiz: quizscreen.Config{DefaultCertainty: "0.5"}}
}

func sized(m AppModel, w, h int) AppModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(AppModel)
}

func TestAppModel_StartsAtHome(t *testing.T) {
	m := sized(newAppModel(testOptions(t)), 100, 30)
	if got := m.router.Active().Title(); got != "Home" {
		t.Errorf("active = %q, want Home", got)
	}
	if !strings.Contains(m.render(), "START QUIZ") {
		t.Error("expected the home menu in the frame")
	}
}

func TestAppModel_SkipHome(t *testing.T) {
	opts := testOptions(t)
	opts.SkipHome = true
	m := newAppModel(opts)
	m.Init()
	if got := m.router.Active().Title(); got != "Quiz" {
		t.Errorf("active = %q, want Quiz", got)
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := sized(newAppModel(testOptions(t)), 40, 10)
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected min size message")
	}
}

func TestAppModel_HeaderShowsTally(t *testing.T) {
	opts := testOptions(t)
	opts.SkipHome = true
	m := newAppModel(opts)
	m.Init()
	m = sized(m, 100, 30)

	updated, _ := m.Update(tea.KeyPressMsg{Code: '1', Text: "1"})
	m = updated.(AppModel)
	updated, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(AppModel)

	if !strings.Contains(m.render(), "1 answered") {
		t.Errorf("expected tally in header:\n%s", m.render())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(testOptions(t))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestAppModel_DirectQuizSummaryQuits(t *testing.T) {
	opts := testOptions(t)
	opts.SkipHome = true
	m := newAppModel(opts)
	m.Init()
	m = sized(m, 100, 30)

	send := func(msg tea.Msg) tea.Cmd {
		updated, cmd := m.Update(msg)
		m = updated.(AppModel)
		return cmd
	}

	send(tea.KeyPressMsg{Code: tea.KeyEscape})
	cmd := send(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected the summary to be requested")
	}
	send(cmd())
	if got := m.router.Active().Title(); got != "Quiz Summary" {
		t.Fatalf("active = %q, want Quiz Summary", got)
	}

	cmd = send(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from the summary")
	}
	if cmd = send(cmd()); cmd == nil {
		t.Fatal("expected quit from the root summary")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
