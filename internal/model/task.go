package model

import "time"

// Task status constants as reported by the backend.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priority constants.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task is an atomic work item belonging to a project.
type Task struct {
	// ID is the backend identifier for this task.
	ID string `json:"id"`

	// ProjectID links the task to its parent project. Only present on
	// payloads that list tasks outside their project (upcoming tasks).
	ProjectID string `json:"project_id,omitempty"`

	// Title is the human-readable summary of the task.
	Title string `json:"title"`

	// Status is the normalized status (use TaskStatus* constants).
	Status string `json:"status"`

	// Priority is the normalized priority (use Priority* constants).
	Priority string `json:"priority"`

	// Archived soft-hides the task from most active-state views.
	Archived bool `json:"is_archived"`

	// DueDate is nil when the task has no due date.
	DueDate *time.Time `json:"due_date"`

	// CreatedAt is when the task was created in the backend.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the task was last modified in the backend.
	UpdatedAt time.Time `json:"updated_at"`
}

// Done reports whether the task has reached its terminal status.
func (t Task) Done() bool {
	return t.Status == TaskStatusDone
}
