package notify

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdeck/internal/model"
)

// fakeBackend scripts the REST side of the synchronizer.
type fakeBackend struct {
	mu            gosync.Mutex
	snapshot      []model.Notification
	snapshotErr   error
	markReadErr   error
	deleteErr     error
	markReadCalls []string
	deleteCalls   []string
}

func (f *fakeBackend) Notifications(ctx context.Context) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	out := make([]model.Notification, len(f.snapshot))
	copy(out, f.snapshot)
	return out, nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadCalls = append(f.markReadCalls, id)
	return f.markReadErr
}

func (f *fakeBackend) DeleteNotification(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

// fakeConn feeds scripted messages to the reader goroutine.
type fakeConn struct {
	msgs   chan []byte
	closed chan struct{}
	once   gosync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		msgs:   make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (c *fakeConn) push(data string) {
	c.msgs <- []byte(data)
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.msgs:
		return 1, data, nil
	case <-c.closed:
		return 0, nil, errors.New("connection closed")
	}
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func notif(id string, read bool) model.Notification {
	return model.Notification{
		ID:        id,
		Message:   "message " + id,
		Read:      read,
		CreatedAt: time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
	}
}

func newTestSynchronizer(backend Backend, dial dialFunc) *Synchronizer {
	cfg := model.StreamConfig{ReconnectBaseMs: 1, ReconnectMaxMs: 5}
	return newSynchronizer(backend, dial, cfg, zerolog.Nop())
}

// drainUntil reads synchronizer messages until pred returns true or
// the timeout expires.
func drainUntil(t *testing.T, s *Synchronizer, pred func(tea.Msg) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		cmd := s.WaitForNext()
		msgCh := make(chan tea.Msg, 1)
		go func() { msgCh <- cmd() }()
		select {
		case msg := <-msgCh:
			if pred(msg) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for synchronizer message")
		}
	}
}

func TestApplyPush_DeduplicatesByID(t *testing.T) {
	s := newTestSynchronizer(&fakeBackend{}, nil)
	s.replaceAll([]model.Notification{notif("n1", false)})

	// Pushing an id already present leaves length and content unchanged;
	// the snapshot version wins.
	dup := notif("n1", true)
	dup.Message = "rewritten"
	assert.False(t, s.applyPush(dup))

	items := s.Notifications()
	require.Len(t, items, 1)
	assert.Equal(t, "message n1", items[0].Message)
	assert.False(t, items[0].Read)
}

func TestApplyPush_PrependsNewestFirst(t *testing.T) {
	s := newTestSynchronizer(&fakeBackend{}, nil)
	s.replaceAll([]model.Notification{notif("n1", false)})

	assert.True(t, s.applyPush(notif("n2", false)))
	assert.True(t, s.applyPush(notif("n3", false)))

	items := s.Notifications()
	require.Len(t, items, 3)
	assert.Equal(t, "n3", items[0].ID)
	assert.Equal(t, "n2", items[1].ID)
	assert.Equal(t, "n1", items[2].ID)
	assert.Equal(t, 3, s.Unread())
}

func TestMarkRead_NonOptimistic(t *testing.T) {
	backend := &fakeBackend{markReadErr: errors.New("backend down")}
	s := newTestSynchronizer(backend, nil)
	s.replaceAll([]model.Notification{notif("n1", false)})

	err := s.MarkRead(context.Background(), "n1")
	require.Error(t, err)
	assert.False(t, s.Notifications()[0].Read, "failed mark-read must leave the item unread")
	assert.Equal(t, 1, s.Unread())

	backend.mu.Lock()
	backend.markReadErr = nil
	backend.mu.Unlock()

	require.NoError(t, s.MarkRead(context.Background(), "n1"))
	assert.True(t, s.Notifications()[0].Read)
	assert.Equal(t, 0, s.Unread())
}

func TestMarkRead_Idempotent(t *testing.T) {
	backend := &fakeBackend{}
	s := newTestSynchronizer(backend, nil)
	s.replaceAll([]model.Notification{notif("n1", false), notif("n2", true)})

	require.NoError(t, s.MarkRead(context.Background(), "n1"))
	after := s.Notifications()

	require.NoError(t, s.MarkRead(context.Background(), "n1"))
	assert.Equal(t, after, s.Notifications(), "second mark-read must not change state")
	assert.Equal(t, []string{"n1", "n1"}, backend.markReadCalls)
}

func TestDelete_NonOptimistic(t *testing.T) {
	backend := &fakeBackend{deleteErr: errors.New("backend down")}
	s := newTestSynchronizer(backend, nil)
	s.replaceAll([]model.Notification{notif("n1", false), notif("n2", false)})

	err := s.Delete(context.Background(), "n1")
	require.Error(t, err)
	assert.Len(t, s.Notifications(), 2, "failed delete must keep the item visible")

	backend.mu.Lock()
	backend.deleteErr = nil
	backend.mu.Unlock()

	require.NoError(t, s.Delete(context.Background(), "n1"))
	items := s.Notifications()
	require.Len(t, items, 1)
	assert.Equal(t, "n2", items[0].ID)
}

func TestRun_SnapshotThenPushes(t *testing.T) {
	backend := &fakeBackend{snapshot: []model.Notification{notif("n1", false)}}
	conn := newFakeConn()
	dial := func(ctx context.Context) (streamConn, error) { return conn, nil }

	s := newTestSynchronizer(backend, dial)
	s.Start()
	defer s.Stop()

	// Queue a duplicate of the snapshot entry and a genuinely new one
	// before the snapshot settles; buffering plus dedup must produce
	// exactly one n1 and a prepended n2.
	conn.push(`{"id": "n1", "message": "dup", "is_read": false, "created_at": "2024-06-10T12:00:00Z"}`)
	conn.push(`{"id": "n2", "message": "fresh", "is_read": false, "created_at": "2024-06-10T13:00:00Z"}`)

	drainUntil(t, s, func(msg tea.Msg) bool {
		feed, ok := msg.(FeedUpdatedMsg)
		return ok && len(feed.Notifications) == 2
	})

	items := s.Notifications()
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)
	assert.Equal(t, "n1", items[1].ID)
	assert.Equal(t, "message n1", items[1].Message, "snapshot version wins over duplicate push")
	assert.Equal(t, StateConnected, s.State())
}

func TestRun_ReconnectsAfterStreamDrop(t *testing.T) {
	backend := &fakeBackend{snapshot: []model.Notification{notif("n1", false)}}

	var mu gosync.Mutex
	dials := 0
	conns := []*fakeConn{newFakeConn(), newFakeConn()}
	dial := func(ctx context.Context) (streamConn, error) {
		mu.Lock()
		defer mu.Unlock()
		if dials >= len(conns) {
			return nil, fmt.Errorf("no more scripted connections")
		}
		c := conns[dials]
		dials++
		return c, nil
	}

	s := newTestSynchronizer(backend, dial)
	s.Start()
	defer s.Stop()

	drainUntil(t, s, func(msg tea.Msg) bool {
		state, ok := msg.(StateChangedMsg)
		return ok && state.State == StateConnected
	})

	// Drop the first connection; the synchronizer must reconnect and
	// refetch the snapshot.
	conns[0].Close()

	drainUntil(t, s, func(msg tea.Msg) bool {
		state, ok := msg.(StateChangedMsg)
		return ok && state.State == StateReconnecting
	})
	drainUntil(t, s, func(msg tea.Msg) bool {
		state, ok := msg.(StateChangedMsg)
		return ok && state.State == StateConnected
	})

	mu.Lock()
	assert.Equal(t, 2, dials)
	mu.Unlock()

	conns[1].push(`{"id": "n9", "message": "after reconnect", "is_read": false, "created_at": "2024-06-10T14:00:00Z"}`)
	drainUntil(t, s, func(msg tea.Msg) bool {
		feed, ok := msg.(FeedUpdatedMsg)
		return ok && len(feed.Notifications) == 2 && feed.Notifications[0].ID == "n9"
	})
}

func TestRun_SnapshotFailureLeavesListEmpty(t *testing.T) {
	backend := &fakeBackend{snapshotErr: errors.New("fetch failed")}
	conn := newFakeConn()
	dial := func(ctx context.Context) (streamConn, error) { return conn, nil }

	s := newTestSynchronizer(backend, dial)
	s.Start()
	defer s.Stop()

	var sawError bool
	drainUntil(t, s, func(msg tea.Msg) bool {
		switch msg.(type) {
		case SyncErrorMsg:
			sawError = true
			return false
		case FeedUpdatedMsg:
			// Loading stops even though the snapshot failed.
			return sawError
		}
		return false
	})

	assert.Empty(t, s.Notifications())
}

func TestStop_EndsSession(t *testing.T) {
	backend := &fakeBackend{}
	conn := newFakeConn()
	dial := func(ctx context.Context) (streamConn, error) { return conn, nil }

	s := newTestSynchronizer(backend, dial)
	s.Start()

	drainUntil(t, s, func(msg tea.Msg) bool {
		state, ok := msg.(StateChangedMsg)
		return ok && state.State == StateConnected
	})

	s.Stop()

	assert.Eventually(t, func() bool {
		return s.State() == StateDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	// Stop is idempotent.
	s.Stop()
}

func TestDecodeNotification(t *testing.T) {
	n, err := decodeNotification([]byte(
		`{"id": "n1", "message": "hi", "link": null, "is_read": false, "created_at": "2024-06-10T12:00:00.123456"}`,
	))
	require.NoError(t, err)
	assert.Equal(t, "n1", n.ID)
	assert.Empty(t, n.Link)
	assert.Equal(t, 2024, n.CreatedAt.Year())

	_, err = decodeNotification([]byte(`{"message": "no id"}`))
	assert.Error(t, err)

	_, err = decodeNotification([]byte(`not json`))
	assert.Error(t, err)
}
