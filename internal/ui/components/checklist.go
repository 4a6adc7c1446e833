package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/ui/theme"
)

// Checklist is a multiple-answer selector. Any number of options may be
// ticked, including none.
type Checklist struct {
	Options  []string
	Cursor   int
	Checked  []bool
	Revealed bool
	correct  []bool
}

// NewChecklist creates a checklist with nothing ticked.
func NewChecklist(options []string) Checklist {
	return Checklist{
		Options: options,
		Checked: make([]bool, len(options)),
	}
}

// Init returns nil.
func (c Checklist) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and toggling. Digits 1-9 toggle the
// option at that position directly.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	if c.Revealed {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", "x":
		c.Toggle(c.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Options) {
				c.Cursor = i
				c.Toggle(i)
			}
		}
	}

	return c, nil
}

// Toggle flips the tick on option i.
func (c *Checklist) Toggle(i int) {
	if i < 0 || i >= len(c.Checked) {
		return
	}
	c.Checked[i] = !c.Checked[i]
}

// Selections returns a copy of the ticks in displayed order.
func (c Checklist) Selections() []bool {
	return append([]bool(nil), c.Checked...)
}

// Reveal locks the checklist and marks which positions were correct.
func (c *Checklist) Reveal(correct []bool) {
	c.Revealed = true
	c.correct = correct
}

// View renders the checklist.
func (c Checklist) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		box := "[ ]"
		if c.Checked[i] {
			box = "[x]"
		}
		prefix := "  "
		if i == c.Cursor && !c.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, box, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case c.Revealed && i < len(c.correct) && c.correct[i]:
			style = theme.Correct
			line += "  ✓"
		case c.Revealed && c.Checked[i]:
			style = theme.Incorrect
			line += "  ✗"
		case c.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
