package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdeck/internal/model"
)

type fakeBackend struct {
	snap *model.WorkspaceSnapshot
	err  error
}

func (f *fakeBackend) WorkspaceStats(context.Context, string) (*model.WorkspaceSnapshot, error) {
	return f.snap, f.err
}

type fakeCache struct {
	snap      *model.WorkspaceSnapshot
	fetchedAt time.Time
	saved     int
}

func (f *fakeCache) Save(_ context.Context, _ string, snap *model.WorkspaceSnapshot) error {
	f.snap = snap
	f.fetchedAt = time.Now()
	f.saved++
	return nil
}

func (f *fakeCache) Load(context.Context, string) (*model.WorkspaceSnapshot, time.Time, error) {
	if f.snap == nil {
		return nil, time.Time{}, errors.New("no snapshot")
	}
	return f.snap, f.fetchedAt, nil
}

func snapshotWithProjects(n int) *model.WorkspaceSnapshot {
	projects := make([]model.Project, n)
	for i := range projects {
		projects[i] = model.Project{ID: string(rune('a' + i)), Title: "project", Status: model.ProjectStatusInProgress}
	}
	return &model.WorkspaceSnapshot{RecentProjects: projects}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestFetchStoresSnapshotInCache(t *testing.T) {
	cache := &fakeCache{}
	backend := &fakeBackend{snap: snapshotWithProjects(3)}
	m := New(backend, cache, "ws-1", 5, zerolog.Nop())

	msg := m.fetch()()
	require.IsType(t, SnapshotMsg{}, msg)
	assert.False(t, msg.(SnapshotMsg).FromCache)
	assert.Equal(t, 1, cache.saved)

	m, _ = m.Update(msg)
	assert.False(t, m.loading)
	assert.NotNil(t, m.snapshot)
}

func TestFetchErrorKeepsLastSnapshot(t *testing.T) {
	backend := &fakeBackend{snap: snapshotWithProjects(2)}
	m := New(backend, &fakeCache{}, "ws-1", 5, zerolog.Nop())
	m, _ = m.Update(SnapshotMsg{Snapshot: backend.snap, FetchedAt: time.Now()})

	m, _ = m.Update(ErrMsg{Err: errors.New("server down")})
	assert.NotNil(t, m.snapshot)
	assert.Error(t, m.err)
}

func TestCachedSnapshotDoesNotOverrideFresh(t *testing.T) {
	fresh := snapshotWithProjects(3)
	stale := snapshotWithProjects(1)
	m := New(&fakeBackend{}, &fakeCache{}, "ws-1", 5, zerolog.Nop())

	m, _ = m.Update(SnapshotMsg{Snapshot: fresh, FetchedAt: time.Now()})
	m, _ = m.Update(SnapshotMsg{Snapshot: stale, FromCache: true, FetchedAt: time.Now().Add(-time.Hour)})

	assert.Same(t, fresh, m.snapshot)
	assert.False(t, m.fromCache)
}

func TestPaginationClampsToBounds(t *testing.T) {
	m := New(&fakeBackend{}, &fakeCache{}, "ws-1", 2, zerolog.Nop())
	m, _ = m.Update(SnapshotMsg{Snapshot: snapshotWithProjects(5), FetchedAt: time.Now()})

	// 5 projects at page size 2 gives 3 pages.
	m, _ = m.Update(keyMsg("right"))
	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, 3, m.page)

	m, _ = m.Update(keyMsg("right"))
	assert.Equal(t, 3, m.page)

	m, _ = m.Update(keyMsg("left"))
	m, _ = m.Update(keyMsg("left"))
	m, _ = m.Update(keyMsg("left"))
	assert.Equal(t, 1, m.page)
}

func TestRefreshKeyTriggersFetch(t *testing.T) {
	backend := &fakeBackend{snap: snapshotWithProjects(1)}
	m := New(backend, &fakeCache{}, "ws-1", 5, zerolog.Nop())
	m, _ = m.Update(SnapshotMsg{Snapshot: backend.snap, FetchedAt: time.Now()})

	m, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	msg := cmd()
	require.IsType(t, SnapshotMsg{}, msg)
}
