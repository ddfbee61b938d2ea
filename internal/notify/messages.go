package notify

import (
	"teamdeck/internal/model"
)

// StateChangedMsg is a tea.Msg emitted whenever the push-stream
// connection state changes.
type StateChangedMsg struct {
	State ConnState
}

// FeedUpdatedMsg is a tea.Msg carrying the current notification
// collection (newest first) and the derived unread count. Receiving
// one also means the initial loading phase is over.
type FeedUpdatedMsg struct {
	Notifications []model.Notification
	Unread        int
}

// SyncErrorMsg is a tea.Msg reporting a snapshot or stream failure.
// Auth is set when the failure means the credential is no longer
// valid and the session should end.
type SyncErrorMsg struct {
	Err  error
	Auth bool
}
