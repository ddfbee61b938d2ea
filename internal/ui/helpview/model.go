package helpview

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"teamdeck/internal/keys"
	"teamdeck/internal/theme"
)

// Model renders the full keyboard shortcut listing.
type Model struct {
	help help.Model
	keys keys.KeyMap
}

func New() Model {
	h := help.New()
	h.ShowAll = true
	return Model{help: h, keys: keys.DefaultKeyMap()}
}

// SetSize updates the available drawing area.
func (m Model) SetSize(width, _ int) Model {
	m.help.Width = width
	return m
}

func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.PanelTitleStyle.Render("Keyboard shortcuts"),
		"",
		m.help.View(m.keys),
	)
}
