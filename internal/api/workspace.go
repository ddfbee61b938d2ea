package api

import (
	"context"
	"fmt"

	"teamdeck/internal/model"
)

// Workspaces lists the workspaces the authenticated user belongs to.
func (c *Client) Workspaces(ctx context.Context) ([]model.Workspace, error) {
	var workspaces []model.Workspace
	if err := c.get(ctx, "/workspaces/", &workspaces); err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	if workspaces == nil {
		workspaces = []model.Workspace{}
	}
	return workspaces, nil
}

// WorkspaceStats fetches the full dashboard snapshot for a workspace
// in one round trip, normalized and defaulted so the aggregator never
// sees absent arrays or malformed dates.
func (c *Client) WorkspaceStats(ctx context.Context, workspaceID string) (*model.WorkspaceSnapshot, error) {
	var payload statsPayload
	path := fmt.Sprintf("/workspaces/%s/stats", workspaceID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("fetching workspace stats: %w", err)
	}
	return payload.toModel(), nil
}
