package home

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivequiz/internal/media"
	qz "github.com/abhisek/drivequiz/internal/quiz"
	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/screens/history"
	quizscreen "github.com/abhisek/drivequiz/internal/screens/quiz"
	"github.com/abhisek/drivequiz/internal/screens/weights"
	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/ui/components"
	"github.com/abhisek/drivequiz/internal/ui/layout"
)

type lifetimeLoadedMsg struct {
	Sessions int
	Err      error
}

// homeStats is what the stats bar shows.
type homeStats struct {
	questions      int
	runCorrect     int
	runSolved      int
	sessions       int
	lifetimeLoaded bool
}

// HomeScreen is the main menu.
type HomeScreen struct {
	engine   *qz.Engine
	repo     store.QueryRepo
	menu     components.Menu
	sessions int
	loaded   bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen. repo and fetcher may be nil; the history
// entry is disabled without a repo.
func New(engine *qz.Engine, fetcher *media.Fetcher, repo store.QueryRepo, cfg quizscreen.Config) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START QUIZ", Hint: "weighted by what you know least", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quizscreen.New(engine, fetcher, cfg)}
			}
		}},
		{Label: "WEIGHTS", Hint: "see which questions come up most", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: weights.New(engine.Pool(), engine.Weights(), repo)}
			}
		}},
		{Label: "HISTORY", Hint: "past quizzes", Disabled: repo == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(repo)}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		engine: engine,
		repo:   repo,
		menu:   components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadLifetime()
}

// Refresh reloads lifetime totals when the user returns from a quiz.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.loadLifetime()
}

func (h *HomeScreen) loadLifetime() tea.Cmd {
	if h.repo == nil {
		return nil
	}
	repo := h.repo
	return func() tea.Msg {
		sessions, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{})
		return lifetimeLoadedMsg{Sessions: len(sessions), Err: err}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(lifetimeLoadedMsg); ok {
		if msg.Err == nil {
			h.sessions = msg.Sessions
			h.loaded = true
		}
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back header and footer to judge
	// the terminal size.
	compact := layout.Compact(width, height+layout.HeaderHeight+layout.FooterHeight+2)
	cw := contentWidth(width)

	c := h.engine.Counters()
	st := homeStats{
		questions:      h.engine.Pool().Len(),
		runCorrect:     c.SolvedCorrectly,
		runSolved:      c.Solved,
		sessions:       h.sessions,
		lifetimeLoaded: h.loaded,
	}

	sections := []string{
		renderTitle(cw, compact),
		renderStatsBar(st, cw, compact),
		renderMenuBox(h.menu.View(), cw),
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
