// Package notify maintains one reactive, ordered, deduplicated
// notification collection fed by two independent sources of truth: a
// one-shot REST snapshot and a continuous WebSocket push stream.
//
// Ordering guarantee: the snapshot replace happens-before any
// push-derived prepend. Pushes that arrive while the snapshot request
// is in flight are buffered and applied afterwards; the id-based
// dedup makes duplicate or re-delivered pushes harmless.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"teamdeck/internal/api"
	"teamdeck/internal/model"
)

// Backend is the subset of the API client the synchronizer mutates
// notifications through.
type Backend interface {
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

// streamConn is the subset of *websocket.Conn the synchronizer reads.
type streamConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

type dialFunc func(ctx context.Context) (streamConn, error)

// pushBuffer bounds how many pushes can queue while the snapshot
// request is in flight.
const pushBuffer = 64

// Synchronizer owns the notification collection for one UI session.
// The collection is never shared across sessions; all reads go through
// the accessor methods, which copy.
type Synchronizer struct {
	backend Backend
	dial    dialFunc
	log     zerolog.Logger
	backoff backoff

	mu    gosync.Mutex
	state ConnState
	items []model.Notification

	msgCh   chan tea.Msg
	cancel  context.CancelFunc
	running bool
}

// New creates a Synchronizer that dials the given WebSocket URL and
// mutates notifications through the backend client. The session id is
// attached to the upgrade request, matching the REST traffic.
func New(backend Backend, streamURL, sessionID string, cfg model.StreamConfig, log zerolog.Logger) *Synchronizer {
	header := http.Header{}
	if sessionID != "" {
		header.Set("X-Client-Session", sessionID)
	}

	dial := func(ctx context.Context) (streamConn, error) {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, header)
		if err != nil {
			return nil, fmt.Errorf("dialing notification stream: %w", err)
		}
		return conn, nil
	}

	return newSynchronizer(backend, dial, cfg, log)
}

func newSynchronizer(backend Backend, dial dialFunc, cfg model.StreamConfig, log zerolog.Logger) *Synchronizer {
	base := time.Duration(cfg.ReconnectBaseMs) * time.Millisecond
	if base <= 0 {
		base = time.Second
	}
	maxDelay := time.Duration(cfg.ReconnectMaxMs) * time.Millisecond
	if maxDelay < base {
		maxDelay = 30 * time.Second
	}

	return &Synchronizer{
		backend: backend,
		dial:    dial,
		log:     log,
		backoff: backoff{base: base, max: maxDelay},
		state:   StateDisconnected,
		msgCh:   make(chan tea.Msg, 16),
	}
}

// Start launches the connect/read loop and returns a command that
// waits for the first message. Calling Start on a running
// synchronizer is a no-op.
func (s *Synchronizer) Start() tea.Cmd {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return s.waitForMsg()
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)

	return s.waitForMsg()
}

// Stop tears down the stream and abandons any in-flight work. Safe to
// call multiple times.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.cancel()
}

// WaitForNext returns a command that waits for the next synchronizer
// message. The UI calls it after handling each message to keep
// listening, mirroring the poller subscription pattern.
func (s *Synchronizer) WaitForNext() tea.Cmd {
	return s.waitForMsg()
}

// Notifications returns a copy of the current collection, newest first.
func (s *Synchronizer) Notifications() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Unread returns the number of unread notifications.
func (s *Synchronizer) Unread() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// State returns the current connection state.
func (s *Synchronizer) State() ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// MarkRead marks a notification as read. Non-optimistic: the local
// flag flips only after the backend confirms, so a failed call leaves
// the item unread and returns the error for user-visible reporting.
func (s *Synchronizer) MarkRead(ctx context.Context, id string) error {
	if err := s.backend.MarkNotificationRead(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			break
		}
	}
	s.mu.Unlock()

	s.emitFeed()
	return nil
}

// Delete removes a notification. Non-optimistic: the item stays
// visible until the backend confirms the delete.
func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteNotification(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.emitFeed()
	return nil
}

// run is the connect/reconnect loop. A successful session resets the
// backoff; consecutive failures grow it up to the configured cap.
func (s *Synchronizer) run(ctx context.Context) {
	attempt := 0
	first := true

	for {
		if ctx.Err() != nil {
			s.setState(StateDisconnected)
			return
		}

		if first {
			s.setState(StateConnecting)
		} else {
			s.setState(StateReconnecting)
		}

		conn, err := s.dial(ctx)
		if err != nil {
			s.log.Warn().Err(err).Int("attempt", attempt).Msg("stream dial failed")
			s.emit(SyncErrorMsg{Err: err, Auth: api.IsAuthError(err)})
			if !s.sleep(ctx, s.backoff.delay(attempt)) {
				s.setState(StateDisconnected)
				return
			}
			attempt++
			continue
		}

		attempt = 0
		first = false
		s.setState(StateConnected)

		s.runSession(ctx, conn)

		if ctx.Err() != nil {
			s.setState(StateDisconnected)
			return
		}

		s.setState(StateReconnecting)
		if !s.sleep(ctx, s.backoff.delay(0)) {
			s.setState(StateDisconnected)
			return
		}
		attempt = 1
	}
}

// runSession reads one connected session: it starts the reader, takes
// the REST snapshot, replaces local state, then applies buffered and
// live pushes until the stream drops or the context ends.
func (s *Synchronizer) runSession(ctx context.Context, conn streamConn) {
	defer conn.Close()

	// Unblock the reader when the context ends.
	sessionCtx, cancelSession := context.WithCancel(ctx)
	defer cancelSession()
	go func() {
		<-sessionCtx.Done()
		conn.Close()
	}()

	pushCh := make(chan model.Notification, pushBuffer)
	readErr := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			n, err := decodeNotification(data)
			if err != nil {
				s.log.Warn().Err(err).Msg("dropping malformed push message")
				continue
			}
			pushCh <- n
		}
	}()

	// Snapshot replace happens before any push is consumed; pushes
	// that raced the fetch sit in pushCh until this settles.
	snapshot, err := s.backend.Notifications(ctx)
	if err != nil {
		// The list stays as it was (empty on first connect) and the
		// loading indicator stops; the next reconnect retries.
		s.log.Error().Err(err).Msg("notification snapshot failed")
		s.emit(SyncErrorMsg{Err: err, Auth: api.IsAuthError(err)})
		s.emitFeed()
	} else {
		s.replaceAll(snapshot)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			s.log.Warn().Err(err).Msg("notification stream closed")
			s.emit(SyncErrorMsg{Err: err})
			return
		case n := <-pushCh:
			if s.applyPush(n) {
				s.emitFeed()
			}
		}
	}
}

// replaceAll swaps the whole collection for the snapshot result.
func (s *Synchronizer) replaceAll(items []model.Notification) {
	s.mu.Lock()
	s.items = make([]model.Notification, len(items))
	copy(s.items, items)
	s.mu.Unlock()

	s.emitFeed()
}

// applyPush prepends a pushed notification iff its id is not already
// present. On a duplicate the existing copy wins and the collection is
// unchanged; this guards the snapshot/stream race and makes redelivery
// after reconnect safe.
func (s *Synchronizer) applyPush(n model.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.ID == n.ID {
			return false
		}
	}

	s.items = append([]model.Notification{n}, s.items...)
	return true
}

func (s *Synchronizer) setState(state ConnState) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.mu.Unlock()

	if changed {
		s.emit(StateChangedMsg{State: state})
	}
}

func (s *Synchronizer) emitFeed() {
	s.emit(FeedUpdatedMsg{
		Notifications: s.Notifications(),
		Unread:        s.Unread(),
	})
}

// emit sends a message without blocking; if the UI is not draining,
// older messages are dropped. The UI re-reads the accessors on every
// message, so a drop never leaves it permanently stale.
func (s *Synchronizer) emit(msg tea.Msg) {
	select {
	case s.msgCh <- msg:
	default:
	}
}

// sleep waits for d or until ctx ends; reports whether the context is
// still alive.
func (s *Synchronizer) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (s *Synchronizer) waitForMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-s.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}

// decodeNotification parses one push message. The backend serializes
// created_at as an ISO timestamp that is not always RFC 3339 (no zone
// suffix), so parsing falls back across layouts.
func decodeNotification(data []byte) (model.Notification, error) {
	var raw struct {
		ID        string `json:"id"`
		Message   string `json:"message"`
		Link      string `json:"link"`
		Read      bool   `json:"is_read"`
		CreatedAt string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Notification{}, fmt.Errorf("decoding push message: %w", err)
	}
	if raw.ID == "" {
		return model.Notification{}, fmt.Errorf("push message missing id")
	}

	n := model.Notification{
		ID:      raw.ID,
		Message: raw.Message,
		Link:    raw.Link,
		Read:    raw.Read,
	}

	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, raw.CreatedAt); err == nil {
			n.CreatedAt = t
			break
		}
	}

	return n, nil
}
