package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestChecklist_ToggleWithCursorAndDigits(t *testing.T) {
	c := NewChecklist([]string{"Stop", "Yield", "Go"})

	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	c, _ = c.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	c, _ = c.Update(key('x'))
	c, _ = c.Update(key('1'))

	got := c.Selections()
	want := []bool{false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Selections = %v, want %v", got, want)
		}
	}
	if c.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 after digit toggle", c.Cursor)
	}
}

func TestChecklist_DigitOutOfRangeIgnored(t *testing.T) {
	c := NewChecklist([]string{"a", "b"})
	c, _ = c.Update(key('5'))
	for i, v := range c.Selections() {
		if v {
			t.Errorf("option %d toggled by out-of-range digit", i)
		}
	}
}

func TestChecklist_RevealLocks(t *testing.T) {
	c := NewChecklist([]string{"a", "b"})
	c.Toggle(1)
	c.Reveal([]bool{true, false})
	c, _ = c.Update(key('1'))

	if c.Selections()[0] {
		t.Error("revealed checklist must ignore input")
	}
	view := c.View()
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("revealed view should mark correct and wrong picks:\n%s", view)
	}
}

func TestChecklist_SelectionsIsCopy(t *testing.T) {
	c := NewChecklist([]string{"a"})
	s := c.Selections()
	s[0] = true
	if c.Checked[0] {
		t.Error("Selections must not alias internal state")
	}
}

func TestTextInput_DecimalOnly(t *testing.T) {
	ti := NewTextInput("0.5", true, 8)
	for _, r := range "0a.5.x" {
		ti, _ = ti.Update(key(r))
	}
	if ti.Value() != "0.5" {
		t.Errorf("Value = %q, want %q", ti.Value(), "0.5")
	}
	v, err := ti.FloatValue()
	if err != nil || v != 0.5 {
		t.Errorf("FloatValue = %v, %v", v, err)
	}
}

func TestTextInput_ErrorClearsOnKey(t *testing.T) {
	ti := NewTextInput("", true, 8)
	ti.SetValue("2")
	ti.SetError("must be in (0, 1]")
	if !strings.Contains(ti.View(), "must be in") {
		t.Fatal("error should be rendered")
	}
	ti, _ = ti.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if strings.Contains(ti.View(), "must be in") {
		t.Error("error should clear on the next keystroke")
	}
}

func TestMenu_SkipsDisabledAndDigits(t *testing.T) {
	chosen := ""
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { chosen = s; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "A", Disabled: true},
		{Label: "B", Action: pick("B")},
		{Label: "C", Action: pick("C")},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want first enabled item", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up past disabled item moved to %d", m.Selected)
	}

	m, _ = m.Update(key('3'))
	if chosen != "C" || m.Selected != 2 {
		t.Errorf("digit 3 chose %q at %d", chosen, m.Selected)
	}

	m, _ = m.Update(key('1'))
	if m.Selected != 2 {
		t.Error("digit for disabled item must be ignored")
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		view := NewProgressBar("w", p, true, 30).View()
		if view == "" {
			t.Errorf("empty view for %v", p)
		}
	}
}
