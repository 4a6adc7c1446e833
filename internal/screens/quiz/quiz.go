package quiz

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivequiz/internal/media"
	qz "github.com/abhisek/drivequiz/internal/quiz"
	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/screens/summary"
	"github.com/abhisek/drivequiz/internal/ui/components"
	"github.com/abhisek/drivequiz/internal/ui/layout"
)

// Config holds the quiz screen settings.
type Config struct {
	DefaultCertainty string
	MediaTimeout     time.Duration // 0 means no limit
}

type focus int

const (
	focusOptions focus = iota
	focusCertainty
)

// QuizScreen shows one question at a time and forwards answers to the
// engine.
type QuizScreen struct {
	engine  *qz.Engine
	fetcher *media.Fetcher
	cfg     Config

	pres      *qz.Presentation
	checklist components.Checklist
	input     components.TextInput
	focus     focus

	seq          int
	media        *media.Media
	mediaLoading bool

	result      *qz.Result
	warnMsg     string
	errMsg      string
	confirmQuit bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen. fetcher may be nil, in which case media
// references are listed but not resolved.
func New(engine *qz.Engine, fetcher *media.Fetcher, cfg Config) *QuizScreen {
	if cfg.DefaultCertainty == "" {
		cfg.DefaultCertainty = "0.5"
	}
	return &QuizScreen{
		engine:  engine,
		fetcher: fetcher,
		cfg:     cfg,
		input:   components.NewTextInput("0.5", true, 8),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.next()
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.result != nil:
		return []layout.KeyHint{
			{Key: "Enter/N", Description: "Next question"},
			{Key: "Esc", Description: "End quiz"},
		}
	}
	if s.focus == focusCertainty {
		return []layout.KeyHint{
			{Key: "0-9 .", Description: "Certainty"},
			{Key: "Tab", Description: "Options"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "End quiz"},
		}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "Tab", Description: "Certainty"},
		{Key: "Enter", Description: "Submit"},
		{Key: "N", Description: "Skip"},
		{Key: "Esc", Description: "End quiz"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case mediaReadyMsg:
		if msg.Seq == s.seq {
			s.media = msg.Media
			s.mediaLoading = false
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// Cursor blink and other input housekeeping.
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "enter":
			return s, s.finish()
		case "n", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		if s.result != nil {
			return s, s.next()
		}
		return s, s.submit()
	}

	if s.result != nil {
		if key == "n" {
			return s, s.next()
		}
		return s, nil
	}

	switch key {
	case "tab", "shift+tab":
		if s.focus == focusOptions {
			return s, s.setFocus(focusCertainty)
		}
		return s, s.setFocus(focusOptions)
	case "up", "down", "space":
		cmd := s.setFocus(focusOptions)
		s.checklist, _ = s.checklist.Update(msg)
		return s, cmd
	}

	// Letter shortcuts belong to the options; while the certainty input
	// has focus they fall through to it.
	if s.focus == focusOptions && key == "n" {
		return s, s.next()
	}

	var cmd tea.Cmd
	if s.focus == focusCertainty {
		s.input, cmd = s.input.Update(msg)
	} else {
		s.checklist, cmd = s.checklist.Update(msg)
	}
	return s, cmd
}

// next draws a question and starts resolving its media.
func (s *QuizScreen) next() tea.Cmd {
	p, err := s.engine.Next()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}

	s.pres = p
	s.result = nil
	s.warnMsg = ""
	s.media = nil
	s.checklist = components.NewChecklist(optionLabels(p))
	s.input.SetValue(s.cfg.DefaultCertainty)
	s.seq++

	return tea.Batch(s.setFocus(focusOptions), s.loadMedia(s.seq, p))
}

func (s *QuizScreen) loadMedia(seq int, p *qz.Presentation) tea.Cmd {
	q := p.Question
	if s.fetcher == nil || (q.Image == "" && q.Video == "") {
		s.mediaLoading = false
		return nil
	}
	s.mediaLoading = true

	fetcher, timeout := s.fetcher, s.cfg.MediaTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return mediaReadyMsg{Seq: seq, Media: fetcher.Prepare(ctx, q)}
	}
}

// submit grades the current selections. Invalid input is reported inline
// and the question stays open.
func (s *QuizScreen) submit() tea.Cmd {
	res, err := s.engine.Submit(s.checklist.Selections(), s.input.Value())

	var verr *qz.ValidationError
	switch {
	case errors.As(err, &verr):
		s.input.SetError(verr.Message)
		if verr.Field == "certainty" {
			return s.setFocus(focusCertainty)
		}
		return nil
	case err != nil && res == nil:
		s.errMsg = err.Error()
		return nil
	case err != nil:
		s.warnMsg = "Weights could not be saved: " + err.Error()
	}

	s.result = res
	s.checklist.Reveal(correctPositions(s.pres))
	s.input.Blur()
	return nil
}

// finish swaps this screen for the run summary.
func (s *QuizScreen) finish() tea.Cmd {
	sum := s.engine.Summary()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *QuizScreen) setFocus(f focus) tea.Cmd {
	s.focus = f
	if f == focusCertainty {
		return s.input.Focus()
	}
	s.input.Blur()
	return nil
}

// optionLabels returns the option labels in displayed order.
func optionLabels(p *qz.Presentation) []string {
	labels := make([]string, len(p.Order))
	for k, i := range p.Order {
		label := p.Question.OptionLabel(i)
		if o := p.Question.Options[i]; o.IsImage() {
			label += "  " + o.Image
		}
		labels[k] = label
	}
	return labels
}

// correctPositions marks the correct options in displayed order.
func correctPositions(p *qz.Presentation) []bool {
	out := make([]bool, len(p.Order))
	for k, i := range p.Order {
		out[k] = p.Question.Options[i].Correct
	}
	return out
}
