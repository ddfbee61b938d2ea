package api

import (
	"encoding/json"
	"strings"
	"time"

	"teamdeck/internal/model"
)

// The backend serializes dates inconsistently: entity timestamps come
// as RFC 3339 datetimes while due dates may be bare dates, and any of
// them may be null or absent. apiTime accepts all of those shapes so a
// single raw type covers every payload.
type apiTime struct {
	t  time.Time
	ok bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (a *apiTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*a = apiTime{}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*a = apiTime{t: t, ok: true}
			return nil
		}
	}
	// Unparseable dates degrade to absent rather than failing the
	// whole payload.
	*a = apiTime{}
	return nil
}

func (a apiTime) ptr() *time.Time {
	if !a.ok {
		return nil
	}
	t := a.t
	return &t
}

func (a apiTime) or(fallback time.Time) time.Time {
	if !a.ok {
		return fallback
	}
	return a.t
}

// Raw payload shapes as the backend sends them. Normalization into
// model types happens in the toModel converters: absent arrays become
// empty, status/priority strings are lowercased and their spelling
// variants folded, and flexible dates are resolved.

type rawTask struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Priority  string  `json:"priority"`
	Archived  bool    `json:"is_archived"`
	DueDate   apiTime `json:"due_date"`
	CreatedAt apiTime `json:"created_at"`
	UpdatedAt apiTime `json:"updated_at"`
}

type rawProject struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	StartDate   apiTime   `json:"start_date"`
	DueDate     apiTime   `json:"due_date"`
	Tags        []string  `json:"tags"`
	Archived    bool      `json:"is_archived"`
	Tasks       []rawTask `json:"tasks"`
	CreatedAt   apiTime   `json:"created_at"`
	UpdatedAt   apiTime   `json:"updated_at"`
}

type rawNotification struct {
	ID        string          `json:"id"`
	Message   string          `json:"message"`
	Link      json.RawMessage `json:"link"`
	Read      bool            `json:"is_read"`
	CreatedAt apiTime         `json:"created_at"`
}

// statsPayload mirrors GET /workspaces/{id}/stats. The backend also
// sends projectStatusData and taskPriorityData blocks; they are
// ignored because the client recomputes both distributions from
// recentProjects, exactly as the original dashboard did.
type statsPayload struct {
	Stats          model.WorkspaceStats `json:"stats"`
	RecentProjects []rawProject         `json:"recentProjects"`
	TaskTrendsData []model.TrendDay     `json:"taskTrendsData"`
	UpcomingTasks  []rawTask            `json:"upcomingTasks"`
}

func (t rawTask) toModel() model.Task {
	return model.Task{
		ID:        t.ID,
		ProjectID: t.ProjectID,
		Title:     t.Title,
		Status:    normalizeTaskStatus(t.Status),
		Priority:  strings.ToLower(t.Priority),
		Archived:  t.Archived,
		DueDate:   t.DueDate.ptr(),
		CreatedAt: t.CreatedAt.or(time.Time{}),
		UpdatedAt: t.UpdatedAt.or(time.Time{}),
	}
}

func (p rawProject) toModel() model.Project {
	tasks := make([]model.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, t.toModel())
	}

	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	return model.Project{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		Title:       p.Title,
		Description: p.Description,
		Status:      strings.ToLower(p.Status),
		StartDate:   p.StartDate.ptr(),
		DueDate:     p.DueDate.ptr(),
		Tags:        tags,
		Archived:    p.Archived,
		Tasks:       tasks,
		CreatedAt:   p.CreatedAt.or(time.Time{}),
		UpdatedAt:   p.UpdatedAt.or(time.Time{}),
	}
}

func (n rawNotification) toModel() model.Notification {
	return model.Notification{
		ID:        n.ID,
		Message:   n.Message,
		Link:      decodeLink(n.Link),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.or(time.Time{}),
	}
}

func (s statsPayload) toModel() *model.WorkspaceSnapshot {
	projects := make([]model.Project, 0, len(s.RecentProjects))
	for _, p := range s.RecentProjects {
		projects = append(projects, p.toModel())
	}

	upcoming := make([]model.Task, 0, len(s.UpcomingTasks))
	for _, t := range s.UpcomingTasks {
		upcoming = append(upcoming, t.toModel())
	}

	trends := s.TaskTrendsData
	if trends == nil {
		trends = []model.TrendDay{}
	}

	return &model.WorkspaceSnapshot{
		Stats:          s.Stats,
		RecentProjects: projects,
		TaskTrends:     trends,
		UpcomingTasks:  upcoming,
	}
}

// normalizeTaskStatus folds the backend's status spelling variants
// ("to_do" vs "todo") into the canonical constants.
func normalizeTaskStatus(status string) string {
	s := strings.ToLower(status)
	if s == "to_do" {
		return model.TaskStatusTodo
	}
	return s
}

// decodeLink unpacks the nullable link field into an empty-or-value
// string.
func decodeLink(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
