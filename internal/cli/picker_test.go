package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLayoutPickerNavigation(t *testing.T) {
	m := NewLayoutPickerModel()
	if len(m.Layouts) == 0 {
		t.Fatal("picker has no layouts")
	}

	// Up at the top stays put.
	next, _ := m.Update(keyMsg("up"))
	m = next.(LayoutPickerModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}

	next, _ = m.Update(keyMsg("down"))
	m = next.(LayoutPickerModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.Cursor)
	}

	// Down at the bottom stays put.
	for i := 0; i < len(m.Layouts)+2; i++ {
		next, _ = m.Update(keyMsg("j"))
		m = next.(LayoutPickerModel)
	}
	if m.Cursor != len(m.Layouts)-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor, len(m.Layouts)-1)
	}
}

func TestLayoutPickerSelect(t *testing.T) {
	m := NewLayoutPickerModel()
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(LayoutPickerModel)

	if m.Selected != m.Layouts[0] {
		t.Errorf("selected = %q, want %q", m.Selected, m.Layouts[0])
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestLayoutPickerQuitWithoutSelection(t *testing.T) {
	m := NewLayoutPickerModel()
	next, cmd := m.Update(keyMsg("esc"))
	m = next.(LayoutPickerModel)

	if m.Selected != "" {
		t.Errorf("selected = %q, want empty", m.Selected)
	}
	if cmd == nil {
		t.Error("esc should quit the program")
	}
}

func TestLayoutPickerView(t *testing.T) {
	m := NewLayoutPickerModel()
	view := m.View()
	for _, name := range m.Layouts {
		if !strings.Contains(view, name) {
			t.Errorf("view missing layout %q", name)
		}
	}
}
