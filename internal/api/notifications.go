package api

import (
	"context"
	"fmt"

	"teamdeck/internal/model"
)

// Notifications fetches the full notification snapshot, newest first.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var raw []rawNotification
	if err := c.get(ctx, "/notifications/", &raw); err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}

	notifications := make([]model.Notification, 0, len(raw))
	for _, n := range raw {
		notifications = append(notifications, n.toModel())
	}
	return notifications, nil
}

// MarkNotificationRead marks a notification as read. The endpoint is
// idempotent; a 404 means the notification is already gone, which
// satisfies the caller's intent and is treated as success.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	path := fmt.Sprintf("/notifications/%s/mark-read", id)
	if err := c.post(ctx, path, nil, nil); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// DeleteNotification removes a notification. As with mark-read, a 404
// is treated as success.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if err := c.delete(ctx, fmt.Sprintf("/notifications/%s", id)); err != nil {
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	return nil
}
