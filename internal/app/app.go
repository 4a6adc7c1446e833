package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/drivequiz/internal/media"
	qz "github.com/abhisek/drivequiz/internal/quiz"
	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/screens/home"
	quizscreen "github.com/abhisek/drivequiz/internal/screens/quiz"
	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/ui/layout"
)

// Options holds the dependencies the UI runs on.
type Options struct {
	Engine  *qz.Engine
	Fetcher *media.Fetcher  // optional
	History store.QueryRepo // optional
	Quiz    quizscreen.Config

	// SkipHome opens the quiz directly.
	SkipHome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	engine *qz.Engine
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Engine, opts.Fetcher, opts.History, opts.Quiz)
	r := router.New(homeScreen)
	if opts.SkipHome {
		r = router.New(quizscreen.New(opts.Engine, opts.Fetcher, opts.Quiz))
	}
	return AppModel{
		router: r,
		engine: opts.Engine,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render composes the frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	c := m.engine.Counters()
	header := layout.RenderHeader(title, c.SolvedCorrectly, c.Solved, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}

	footer := layout.RenderFooter(footerHints, m.width)
	return layout.RenderFrame(header, footer, m.width, m.height, m.router.View)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Engine == nil {
		return fmt.Errorf("app: no quiz engine")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
