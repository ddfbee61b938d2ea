package notifications

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdeck/internal/model"
)

type fakeFeed struct {
	items      []model.Notification
	markedRead []string
	deleted    []string
}

func (f *fakeFeed) Notifications() []model.Notification { return f.items }

func (f *fakeFeed) Unread() int {
	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

func (f *fakeFeed) MarkRead(_ context.Context, id string) error {
	f.markedRead = append(f.markedRead, id)
	return nil
}

func (f *fakeFeed) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func feedWith(items ...model.Notification) *fakeFeed {
	return &fakeFeed{items: items}
}

func TestCursorMovesWithinBounds(t *testing.T) {
	feed := feedWith(
		model.Notification{ID: "a", Message: "first"},
		model.Notification{ID: "b", Message: "second"},
	)
	m := New(feed, zerolog.Nop()).Refresh()

	assert.Equal(t, 0, m.cursor)

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 1, m.cursor)

	m, _ = m.Update(keyMsg("j"))
	assert.Equal(t, 1, m.cursor)

	m, _ = m.Update(keyMsg("k"))
	m, _ = m.Update(keyMsg("k"))
	assert.Equal(t, 0, m.cursor)
}

func TestMarkReadSendsRequestForSelected(t *testing.T) {
	feed := feedWith(
		model.Notification{ID: "a", Message: "first"},
		model.Notification{ID: "b", Message: "second"},
	)
	m := New(feed, zerolog.Nop()).Refresh()

	m, _ = m.Update(keyMsg("j"))
	_, cmd := m.Update(keyMsg("m"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, ActionDoneMsg{}, msg)
	assert.NoError(t, msg.(ActionDoneMsg).Err)
	assert.Equal(t, []string{"b"}, feed.markedRead)
}

func TestMarkReadSkipsAlreadyRead(t *testing.T) {
	feed := feedWith(model.Notification{ID: "a", Message: "seen", Read: true})
	m := New(feed, zerolog.Nop()).Refresh()

	_, cmd := m.Update(keyMsg("m"))
	assert.Nil(t, cmd)
	assert.Empty(t, feed.markedRead)
}

func TestDeleteSendsRequestForSelected(t *testing.T) {
	feed := feedWith(model.Notification{ID: "a", Message: "first"})
	m := New(feed, zerolog.Nop()).Refresh()

	_, cmd := m.Update(keyMsg("x"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"a"}, feed.deleted)
}

func TestOpenEmitsLinkWithoutMarkingRead(t *testing.T) {
	feed := feedWith(model.Notification{ID: "a", Message: "go look", Link: "/projects/p1"})
	m := New(feed, zerolog.Nop()).Refresh()

	_, cmd := m.Update(keyMsg("enter"))
	require.NotNil(t, cmd)

	msg := cmd()
	require.IsType(t, OpenLinkMsg{}, msg)
	assert.Equal(t, "/projects/p1", msg.(OpenLinkMsg).Link)
	assert.Empty(t, feed.markedRead)
}

func TestOpenIgnoredWithoutLink(t *testing.T) {
	feed := feedWith(model.Notification{ID: "a", Message: "plain"})
	m := New(feed, zerolog.Nop()).Refresh()

	_, cmd := m.Update(keyMsg("enter"))
	assert.Nil(t, cmd)
}

func TestRefreshClampsCursorAfterShrink(t *testing.T) {
	feed := feedWith(
		model.Notification{ID: "a"},
		model.Notification{ID: "b"},
		model.Notification{ID: "c"},
	)
	m := New(feed, zerolog.Nop()).Refresh()
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	require.Equal(t, 2, m.cursor)

	feed.items = feed.items[:1]
	m = m.Refresh()
	assert.Equal(t, 0, m.cursor)
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"seconds ago", now.Add(-30 * time.Second), "just now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m ago"},
		{"hours ago", now.Add(-3 * time.Hour), "3h ago"},
		{"days ago", now.Add(-48 * time.Hour), "2d ago"},
		{"weeks ago", now.Add(-10 * 24 * time.Hour), "Feb 28"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTime(tt.at, now))
		})
	}
}
