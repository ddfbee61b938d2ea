package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"teamdeck/internal/model"
)

// ErrNoSnapshot is returned by Load when no snapshot has been cached
// for the workspace yet.
var ErrNoSnapshot = errors.New("no cached snapshot for workspace")

// Save upserts the snapshot for a workspace, stamping it with the
// current time.
func (s *SnapshotCache) Save(ctx context.Context, workspaceID string, snap *model.WorkspaceSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	const query = `
		INSERT INTO workspace_snapshots (id, workspace_id, payload, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(workspace_id) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`

	_, err = s.db.ExecContext(ctx, query,
		uuid.New().String(), workspaceID, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot for workspace %s: %w", workspaceID, err)
	}
	return nil
}

// Load returns the cached snapshot for a workspace and when it was
// fetched. Returns ErrNoSnapshot when the cache is cold.
func (s *SnapshotCache) Load(ctx context.Context, workspaceID string) (*model.WorkspaceSnapshot, time.Time, error) {
	var row struct {
		Payload   string    `db:"payload"`
		FetchedAt time.Time `db:"fetched_at"`
	}

	err := s.db.GetContext(ctx, &row,
		"SELECT payload, fetched_at FROM workspace_snapshots WHERE workspace_id = ?",
		workspaceID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("loading snapshot for workspace %s: %w", workspaceID, err)
	}

	var snap model.WorkspaceSnapshot
	if err := json.Unmarshal([]byte(row.Payload), &snap); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding cached snapshot: %w", err)
	}
	return &snap, row.FetchedAt, nil
}

// Prune removes cached snapshots older than the retention window.
func (s *SnapshotCache) Prune(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM workspace_snapshots WHERE fetched_at < ?", cutoff,
	)
	if err != nil {
		return fmt.Errorf("pruning snapshot cache: %w", err)
	}
	return nil
}
