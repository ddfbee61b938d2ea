package model

import "time"

// Project status constants as reported by the backend.
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on-hold"
	ProjectStatusCancelled  = "cancelled"
)

// Project is a named unit of work containing tasks, within a workspace.
type Project struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspace_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Tags        []string   `json:"tags"`
	Archived    bool       `json:"is_archived"`
	Tasks       []Task     `json:"tasks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
