package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"teamdeck/internal/keys"
	"teamdeck/internal/model"
	"teamdeck/internal/theme"
)

// Feed exposes the live notification list and its mutations.
type Feed interface {
	Notifications() []model.Notification
	Unread() int
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// OpenLinkMsg asks the application to open a notification's link.
// Opening a link does not mark the notification read.
type OpenLinkMsg struct {
	Link string
}

// ActionDoneMsg reports the outcome of a mark-read or delete request.
type ActionDoneMsg struct {
	Err error
}

// Model renders the notification feed with a movable cursor.
type Model struct {
	feed Feed
	keys keys.KeyMap
	log  zerolog.Logger

	items  []model.Notification
	cursor int
	err    error

	width  int
	height int
}

func New(feed Feed, log zerolog.Logger) Model {
	return Model{
		feed: feed,
		keys: keys.DefaultKeyMap(),
		log:  log,
	}
}

// SetSize updates the available drawing area.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// Refresh pulls the current list from the feed. The application calls
// this whenever the synchronizer reports an update.
func (m Model) Refresh() Model {
	m.items = m.feed.Notifications()
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ActionDoneMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.MarkRead):
			if n, ok := m.selected(); ok && !n.Read {
				return m, m.markRead(n.ID)
			}
		case key.Matches(msg, m.keys.Delete):
			if n, ok := m.selected(); ok {
				return m, m.delete(n.ID)
			}
		case key.Matches(msg, m.keys.Open):
			if n, ok := m.selected(); ok && n.Link != "" {
				return m, func() tea.Msg { return OpenLinkMsg{Link: n.Link} }
			}
		}
	}
	return m, nil
}

func (m Model) selected() (model.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Notification{}, false
	}
	return m.items[m.cursor], true
}

func (m Model) markRead(id string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		return ActionDoneMsg{Err: feed.MarkRead(context.Background(), id)}
	}
}

func (m Model) delete(id string) tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		return ActionDoneMsg{Err: feed.Delete(context.Background(), id)}
	}
}

func (m Model) View() string {
	var rows []string
	title := "Notifications"
	if unread := m.feed.Unread(); unread > 0 {
		title = fmt.Sprintf("Notifications (%d unread)", unread)
	}
	rows = append(rows, theme.PanelTitleStyle.Render(title))

	if len(m.items) == 0 {
		rows = append(rows, theme.MutedStyle.Render("  No notifications"))
	}
	for i, n := range m.items {
		rows = append(rows, m.renderItem(n, i == m.cursor))
	}
	if m.err != nil {
		rows = append(rows, theme.ErrorStyle.Render("  "+m.err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderItem(n model.Notification, selected bool) string {
	marker := "  "
	if !n.Read {
		marker = theme.UnreadStyle.Render("● ")
	}
	line := marker + n.Message
	if n.Link != "" {
		line += theme.MutedStyle.Render(" ↗")
	}
	line += theme.MutedStyle.Render("  " + relativeTime(n.CreatedAt, time.Now()))

	if selected {
		return theme.SelectedItemStyle.Render(line)
	}
	if n.Read {
		return theme.ListItemStyle.Render(theme.MutedStyle.Render(line))
	}
	return theme.ListItemStyle.Render(line)
}

// relativeTime formats how long ago t happened relative to now.
func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
