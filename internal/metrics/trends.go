package metrics

import (
	"fmt"
	"math"

	"teamdeck/internal/model"
)

// TrendTotals sums the weekly trend series across all days.
type TrendTotals struct {
	Completed  int
	InProgress int
	ToDo       int
	Archived   int

	// CompletionRate is completed over the grand total as an integer
	// percentage; 0 when the series is empty.
	CompletionRate int
}

// WeeklyTrendTotals sums completed/inProgress/toDo/archived over the
// per-day series (the backend pre-buckets the last 7 days) and derives
// the completion rate.
func WeeklyTrendTotals(trends []model.TrendDay) TrendTotals {
	var t TrendTotals
	for _, d := range trends {
		t.Completed += d.Completed
		t.InProgress += d.InProgress
		t.ToDo += d.ToDo
		t.Archived += d.Archived
	}

	total := t.Completed + t.InProgress + t.ToDo + t.Archived
	if total > 0 {
		t.CompletionRate = int(math.Round(float64(t.Completed) / float64(total) * 100))
	}
	return t
}

// VelocityPoint pairs approximate task creation with completion for
// one day of the trend series.
type VelocityPoint struct {
	Name      string
	Created   int
	Completed int
}

// VelocitySeries derives a per-day created/completed pairing from the
// trend series. "Created" is toDo+inProgress for the day: tasks not
// yet completed stand in for tasks created that day. This is a
// deliberate approximation carried over from the product, not a true
// creation-event count; real creation timestamps never reach the
// client.
func VelocitySeries(trends []model.TrendDay) []VelocityPoint {
	points := make([]VelocityPoint, 0, len(trends))
	for _, d := range trends {
		points = append(points, VelocityPoint{
			Name:      d.Name,
			Created:   d.ToDo + d.InProgress,
			Completed: d.Completed,
		})
	}
	return points
}

// WeeklySummary renders a one-line narrative for the trend card: the
// day with the most completions and the overall completion rate.
// Ties go to the earliest day, matching the product behavior.
func WeeklySummary(trends []model.TrendDay) string {
	if len(trends) == 0 {
		return "No task activity in the last 7 days."
	}

	totals := WeeklyTrendTotals(trends)

	best := model.TrendDay{}
	for _, d := range trends {
		if d.Completed > best.Completed {
			best = d
		}
	}

	return fmt.Sprintf(
		"This week, most tasks were completed on %s. Overall completion rate is %d%%.",
		best.Name, totals.CompletionRate,
	)
}
