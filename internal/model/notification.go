package model

import "time"

// Notification represents an alert pushed to the user about activity
// in one of their workspaces. Identity is by ID; content is immutable
// once received except the Read flag.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Link is an optional in-app destination; empty when absent.
	Link string `json:"link,omitempty"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"is_read"`

	// CreatedAt is when this notification was generated server-side.
	CreatedAt time.Time `json:"created_at"`
}
