// Package metrics computes UI-ready numbers from a workspace snapshot.
//
// Every function here is pure: no I/O, no mutation of inputs, and the
// same inputs always produce the same outputs. The dashboard calls
// them on every render cycle, so they must stay cheap and side-effect
// free. Nil slices are treated as empty.
package metrics

import (
	"math"
	"time"

	"teamdeck/internal/model"
)

// ActiveProjects is the total project count minus archived projects.
// The result is deliberately not clamped at zero: a negative value
// means the backend counters disagree, and hiding that would mask a
// data-integrity problem.
func ActiveProjects(stats model.WorkspaceStats) int {
	return stats.TotalProjects - stats.TotalArchivedProjects
}

// OverdueTasks counts tasks across all projects whose due date is
// strictly before today (both truncated to midnight in today's
// location), excluding archived and done tasks.
func OverdueTasks(projects []model.Project, today time.Time) int {
	day := truncateToDay(today)

	count := 0
	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.Archived || t.DueDate == nil || t.Status == model.TaskStatusDone {
				continue
			}
			if truncateToDay(t.DueDate.In(today.Location())).Before(day) {
				count++
			}
		}
	}
	return count
}

// WorkspaceHealth is the fraction of non-archived tasks that are done,
// across all projects combined. Returns a value in [0,1]; 0 when there
// are no non-archived tasks.
func WorkspaceHealth(projects []model.Project) float64 {
	total := 0
	completed := 0
	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.Archived {
				continue
			}
			total++
			if t.Status == model.TaskStatusDone {
				completed++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// AvgProjectProgress averages per-project completion percentages over
// non-archived projects, counting only non-archived tasks within each.
// A project with no countable tasks contributes 0. The result is
// rounded to the nearest integer; 0 when every project is archived.
func AvgProjectProgress(projects []model.Project) int {
	nonArchived := 0
	totalProgress := 0.0

	for _, p := range projects {
		if p.Archived {
			continue
		}
		nonArchived++

		total := 0
		completed := 0
		for _, t := range p.Tasks {
			if t.Archived {
				continue
			}
			total++
			if t.Status == model.TaskStatusDone {
				completed++
			}
		}
		if total > 0 {
			totalProgress += float64(completed) / float64(total) * 100
		}
	}

	if nonArchived == 0 {
		return 0
	}
	return int(math.Round(totalProgress / float64(nonArchived)))
}

// DueTask is a task annotated with its parent project title for the
// tasks-due-today panel.
type DueTask struct {
	model.Task
	ProjectTitle string
}

// TasksDueToday returns non-archived tasks whose due date falls on
// today (truncated to midnight in today's location), in project order.
func TasksDueToday(projects []model.Project, today time.Time) []DueTask {
	day := truncateToDay(today)

	var due []DueTask
	for _, p := range projects {
		for _, t := range p.Tasks {
			if t.Archived || t.DueDate == nil {
				continue
			}
			if truncateToDay(t.DueDate.In(today.Location())).Equal(day) {
				due = append(due, DueTask{Task: t, ProjectTitle: p.Title})
			}
		}
	}
	return due
}

// ProjectProgress is the percentage of done tasks over ALL tasks,
// archived included, rounded to the nearest integer; 0 for an empty
// list. This intentionally disagrees with AvgProjectProgress, which
// excludes archived tasks: both match observed product behavior and
// must not be unified.
func ProjectProgress(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range tasks {
		if t.Status == model.TaskStatusDone {
			done++
		}
	}
	return int(math.Round(float64(done) / float64(len(tasks)) * 100))
}

// PriorityCount holds task counts per priority bucket plus archived.
// The archived bucket is not mutually exclusive with the priority
// buckets: an archived high-priority task counts toward both.
type PriorityCount struct {
	High     int
	Medium   int
	Low      int
	Archived int
}

// PriorityDistribution counts tasks across all projects by priority,
// with a separate archived counter.
func PriorityDistribution(projects []model.Project) PriorityCount {
	var c PriorityCount
	for _, p := range projects {
		for _, t := range p.Tasks {
			switch t.Priority {
			case model.PriorityHigh:
				c.High++
			case model.PriorityMedium:
				c.Medium++
			case model.PriorityLow:
				c.Low++
			}
			if t.Archived {
				c.Archived++
			}
		}
	}
	return c
}

// StatusCount holds project counts per status plus archived. As with
// PriorityCount, archived is a separate, non-exclusive counter.
type StatusCount struct {
	Completed  int
	InProgress int
	Planning   int
	Archived   int
}

// StatusDistribution counts projects by status, with a separate
// archived counter.
func StatusDistribution(projects []model.Project) StatusCount {
	var c StatusCount
	for _, p := range projects {
		switch p.Status {
		case model.ProjectStatusCompleted:
			c.Completed++
		case model.ProjectStatusInProgress:
			c.InProgress++
		case model.ProjectStatusPlanning:
			c.Planning++
		}
		if p.Archived {
			c.Archived++
		}
	}
	return c
}

// ProjectStatusStack is the per-project task status breakdown behind
// the stacked task chart.
type ProjectStatusStack struct {
	Title      string
	Done       int
	InProgress int
	ToDo       int
}

// TaskStatusPerProject breaks each project's tasks down by status,
// archived tasks included, preserving project order.
func TaskStatusPerProject(projects []model.Project) []ProjectStatusStack {
	stacks := make([]ProjectStatusStack, 0, len(projects))
	for _, p := range projects {
		s := ProjectStatusStack{Title: p.Title}
		for _, t := range p.Tasks {
			switch t.Status {
			case model.TaskStatusDone:
				s.Done++
			case model.TaskStatusInProgress:
				s.InProgress++
			case model.TaskStatusTodo:
				s.ToDo++
			}
		}
		stacks = append(stacks, s)
	}
	return stacks
}

// UnreadCount counts notifications not yet marked read.
func UnreadCount(notifications []model.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// truncateToDay strips the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
