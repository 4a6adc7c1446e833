package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/ui/layout"
	"github.com/abhisek/drivequiz/internal/ui/theme"
)

const titleFull = `  ____       _             ___        _
 |  _ \ _ __(_)_   _____  / _ \ _   _(_)____
 | | | | '__| \ \ / / _ \| | | | | | | |_  /
 | |_| | |  | |\ V /  __/| |_| | |_| | |/ /
 |____/|_|  |_| \_/ \___| \__\_\\__,_|_/___|`

const titleCompact = "D R I V E · Q U I Z"

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// renderStatsBar shows the pool size, this run's tally and lifetime totals
// in a double-bordered box at content width.
func renderStatsBar(st homeStats, cw int, compact bool) string {
	poolStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	runStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	lifeStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	run := layout.Tally(st.runCorrect, st.runSolved)
	life := dimStyle.Render("no history")
	if st.lifetimeLoaded {
		life = lifeStyle.Render(fmt.Sprintf("%d QUIZZES", st.sessions))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			poolStyle.Render(fmt.Sprintf("?%d", st.questions)),
			runStyle.Render("✓"+run),
			life,
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			poolStyle.Render(fmt.Sprintf("%d QUESTIONS", st.questions)),
			runStyle.Render("✓ "+run+" TODAY"),
			life,
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenuBox centers the menu block at content width.
func renderMenuBox(menu string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(menu)
}

// renderFrame wraps content in a double-border frame, centered vertically
// and horizontally within the given dimensions.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
