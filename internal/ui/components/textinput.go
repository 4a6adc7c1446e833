package components

import (
	"strconv"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/drivequiz/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with app styling.
type TextInput struct {
	Model       textinput.Model
	DecimalOnly bool
	MaxWidth    int
	errMsg      string
}

// NewTextInput creates a new styled text input. With decimalOnly set,
// printable keys other than digits and a single '.' are dropped.
func NewTextInput(placeholder string, decimalOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:       ti,
		DecimalOnly: decimalOnly,
		MaxWidth:    maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.DecimalOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !t.acceptsDecimalKey(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		t.errMsg = ""
	}
	return t, cmd
}

func (t TextInput) acceptsDecimalKey(c byte) bool {
	if c >= '0' && c <= '9' {
		return true
	}
	if c == '.' {
		for _, r := range t.Model.Value() {
			if r == '.' {
				return false
			}
		}
		return true
	}
	return false
}

// View renders the text input with any pending error below it.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.errMsg != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.errMsg)
	}
	return view
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value and moves the cursor to the end.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
	t.Model.CursorEnd()
	t.errMsg = ""
}

// FloatValue parses the input as a float.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(t.Model.Value(), 64)
}

// SetError shows msg under the input until the next keystroke.
func (t *TextInput) SetError(msg string) {
	t.errMsg = msg
}

// Focus gives the input keyboard focus.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes keyboard focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}
