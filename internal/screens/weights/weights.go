package weights

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/pool"
	"github.com/abhisek/drivequiz/internal/router"
	"github.com/abhisek/drivequiz/internal/screen"
	"github.com/abhisek/drivequiz/internal/store"
	"github.com/abhisek/drivequiz/internal/ui/components"
	"github.com/abhisek/drivequiz/internal/ui/layout"
	"github.com/abhisek/drivequiz/internal/ui/theme"
)

type statsLoadedMsg struct {
	Stats map[int]*store.QuestionStat
	Err   error
}

type sortMode int

const (
	sortPool sortMode = iota
	sortWeight
)

// WeightsScreen lists every question with its sampling weight and answer
// statistics from the history file.
type WeightsScreen struct {
	pool    *pool.Pool
	weights []float64
	repo    store.QueryRepo
	stats   map[int]*store.QuestionStat
	order   []int
	mode    sortMode
	cursor  int
	offset  int
	rows    int
	statErr string
}

var _ screen.Screen = (*WeightsScreen)(nil)
var _ screen.KeyHintProvider = (*WeightsScreen)(nil)

// New creates a WeightsScreen over a snapshot of weights. repo may be nil.
func New(p *pool.Pool, weights []float64, repo store.QueryRepo) *WeightsScreen {
	s := &WeightsScreen{
		pool:    p,
		weights: weights,
		repo:    repo,
		rows:    10,
	}
	s.resort()
	return s
}

func (s *WeightsScreen) Init() tea.Cmd {
	if s.repo == nil {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		stats, err := repo.QuestionStats(context.Background())
		return statsLoadedMsg{Stats: stats, Err: err}
	}
}

func (s *WeightsScreen) Title() string {
	return "Weights"
}

func (s *WeightsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "S", Description: "Sort"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *WeightsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.statErr = msg.Err.Error()
		} else {
			s.stats = msg.Stats
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.move(-1)
		case "down", "j":
			s.move(1)
		case "pgup":
			s.move(-s.rows)
		case "pgdown":
			s.move(s.rows)
		case "s":
			if s.mode == sortPool {
				s.mode = sortWeight
			} else {
				s.mode = sortPool
			}
			s.resort()
		}
	}
	return s, nil
}

func (s *WeightsScreen) move(delta int) {
	s.cursor = min(max(s.cursor+delta, 0), max(len(s.order)-1, 0))
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.rows {
		s.offset = s.cursor - s.rows + 1
	}
}

// resort orders rows by pool position or by descending weight, which is
// the order in which questions are most likely to be drawn.
func (s *WeightsScreen) resort() {
	s.order = make([]int, len(s.weights))
	for i := range s.order {
		s.order[i] = i
	}
	if s.mode == sortWeight {
		sort.SliceStable(s.order, func(a, b int) bool {
			return s.weights[s.order[a]] > s.weights[s.order[b]]
		})
	}
	s.cursor, s.offset = 0, 0
}

// Probability returns the chance question i is drawn next.
func (s *WeightsScreen) Probability(i int) float64 {
	var sum float64
	for _, w := range s.weights {
		sum += w
	}
	if sum == 0 {
		return 0
	}
	return s.weights[i] / sum
}

func (s *WeightsScreen) View(width, height int) string {
	if len(s.weights) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  No questions loaded.")
	}

	// Two lines of chrome above the table.
	s.rows = max(height-4, 3)
	s.move(0)

	var b strings.Builder
	modeStr := "pool order"
	if s.mode == sortWeight {
		modeStr = "highest weight first"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("  %d questions, sorted by %s", len(s.weights), modeStr)))
	b.WriteString("\n")
	if s.statErr != "" {
		b.WriteString(theme.Warning.Render("  history unavailable: " + s.statErr))
	}
	b.WriteString("\n")

	barWidth := 24
	promptWidth := max(width-barWidth-40, 10)

	end := min(s.offset+s.rows, len(s.order))
	for row := s.offset; row < end; row++ {
		i := s.order[row]
		w := s.weights[i]

		bar := components.ProgressBar{Percent: min(w, 1), Width: barWidth}
		if w < 0.25 {
			bar.Fill = theme.Success
		}

		statStr := "   -    "
		if st := s.stats[i]; st != nil && st.Attempts > 0 {
			statStr = fmt.Sprintf("%3d %3.0f%%", st.Attempts, st.Accuracy()*100)
		}

		prompt := s.pool.Questions[i].Prompt
		if r := []rune(prompt); len(r) > promptWidth {
			prompt = string(r[:promptWidth-1]) + "…"
		}

		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if row == s.cursor {
			prefix = "▸ "
			style = theme.Selected
		}

		line := fmt.Sprintf("%s#%-4d %s %-7s %5.1f%%  %s  %s",
			prefix, i+1, bar.View(), strconv.FormatFloat(w, 'g', 4, 64),
			s.Probability(i)*100, statStr, style.Render(prompt))
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
