package theme

import (
	"github.com/charmbracelet/lipgloss"

	"teamdeck/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// CardStyle wraps one KPI card on the dashboard.
var CardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// CardTitleStyle renders a KPI card's label.
var CardTitleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// CardValueStyle renders a KPI card's number.
var CardValueStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// PanelStyle wraps a dashboard section.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// PanelTitleStyle renders a section heading.
var PanelTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// UnreadStyle marks unread notifications and the unread badge.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// MutedStyle renders read notifications and secondary text.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// ErrorStyle renders surfaced errors.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// TaskStatusStyle returns a color-coded style for a task status.
func TaskStatusStyle(status string) lipgloss.Style {
	switch status {
	case model.TaskStatusDone:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.TaskStatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	}
}

// PriorityStyle returns a color-coded style for a task priority.
func PriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case model.PriorityHigh:
		return lipgloss.NewStyle().Foreground(ColorRed)
	case model.PriorityMedium:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	default:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	}
}

// ProjectStatusStyle returns a color-coded style for a project status.
func ProjectStatusStyle(status string, archived bool) lipgloss.Style {
	if archived {
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
	switch status {
	case model.ProjectStatusCompleted:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.ProjectStatusInProgress:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case model.ProjectStatusPlanning:
		return lipgloss.NewStyle().Foreground(ColorBlue)
	default:
		return lipgloss.NewStyle().Foreground(ColorGray)
	}
}
