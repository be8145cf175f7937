package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/inkfold/imposer/pkg/impose"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayoutPickerModel - Interactive layout selection
// =============================================================================

// LayoutPickerModel is the bubbletea model for interactive layout selection.
type LayoutPickerModel struct {
	Layouts  []string
	Cursor   int
	Selected string
}

// NewLayoutPickerModel creates a picker over all layout presets.
func NewLayoutPickerModel() LayoutPickerModel {
	return LayoutPickerModel{Layouts: impose.LayoutNames()}
}

func (m LayoutPickerModel) Init() tea.Cmd {
	return nil
}

func (m LayoutPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Layouts)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Layouts[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LayoutPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Layout"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Layouts {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		b.WriteString(cursor + style.Render(name))
		b.WriteString("  " + listDimStyle.Render(impose.Describe(name)))
		b.WriteString("\n")
	}

	return b.String()
}

// pickLayout runs the interactive layout picker and returns the chosen
// preset name, or "" if the user quit without choosing.
func pickLayout() (string, error) {
	model, err := tea.NewProgram(NewLayoutPickerModel()).Run()
	if err != nil {
		return "", fmt.Errorf("running layout picker: %w", err)
	}
	picker, ok := model.(LayoutPickerModel)
	if !ok {
		return "", nil
	}
	return picker.Selected, nil
}
