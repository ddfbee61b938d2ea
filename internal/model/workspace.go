package model

import "time"

// Workspace is the top-level container owning projects and members.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkspaceStats is the precomputed counter block of the workspace
// stats endpoint. The backend sends camelCase keys here, unlike the
// snake_case entity payloads.
type WorkspaceStats struct {
	TotalProjects          int `json:"totalProjects"`
	TotalArchivedProjects  int `json:"totalArchivedProjects"`
	TotalTasks             int `json:"totalTasks"`
	TotalProjectInProgress int `json:"totalProjectInProgress"`
	TotalTaskCompleted     int `json:"totalTaskCompleted"`
	TotalTaskToDo          int `json:"totalTaskToDo"`
	TotalTaskInProgress    int `json:"totalTaskInProgress"`
}

// TrendDay is one entry of the 7-day task trend series, pre-bucketed
// by the backend by day-of-week name.
type TrendDay struct {
	Name       string `json:"name"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
	ToDo       int    `json:"toDo"`
	Archived   int    `json:"archived"`
}

// WorkspaceSnapshot is everything the dashboard needs, fetched in a
// single round trip from GET /workspaces/{id}/stats.
type WorkspaceSnapshot struct {
	Stats          WorkspaceStats `json:"stats"`
	RecentProjects []Project      `json:"recentProjects"`
	TaskTrends     []TrendDay     `json:"taskTrendsData"`
	UpcomingTasks  []Task         `json:"upcomingTasks"`
}
