package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"teamdeck/internal/notify"
	"teamdeck/internal/theme"
)

// Layout holds the terminal dimensions and renders the shared chrome
// around each view.
type Layout struct {
	Width  int
	Height int
}

// ContentHeight returns the rows left for the active view after the
// header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - 2
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader draws the title bar with the connection state and the
// unread notification badge.
func (l Layout) RenderHeader(title string, state notify.ConnState, unread int) string {
	left := theme.HeaderStyle.Render("teamdeck · " + title)

	badge := ""
	if unread > 0 {
		badge = theme.UnreadStyle.Render(fmt.Sprintf(" %d unread ", unread))
	}
	right := badge + theme.MutedStyle.Render(" "+connLabel(state)+" ")

	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

// RenderStatusBar draws the bottom bar with key hints and an optional
// error message.
func (l Layout) RenderStatusBar(hints string, errMsg string) string {
	content := hints
	if errMsg != "" {
		content = theme.ErrorStyle.Render(errMsg) + "  " + hints
	}
	return theme.StatusBarStyle.Width(l.Width).Render(content)
}

func connLabel(state notify.ConnState) string {
	switch state {
	case notify.StateConnected:
		return "● live"
	case notify.StateConnecting:
		return "○ connecting"
	case notify.StateReconnecting:
		return "◌ reconnecting"
	default:
		return "○ offline"
	}
}
