package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teamdeck/internal/model"
)

func weekFixture() []model.TrendDay {
	return []model.TrendDay{
		{Name: "Sun", Completed: 2, InProgress: 1, ToDo: 3, Archived: 0},
		{Name: "Mon", Completed: 5, InProgress: 2, ToDo: 1, Archived: 1},
		{Name: "Tue", Completed: 0, InProgress: 0, ToDo: 0, Archived: 0},
		{Name: "Wed", Completed: 3, InProgress: 1, ToDo: 2, Archived: 0},
		{Name: "Thu", Completed: 0, InProgress: 2, ToDo: 4, Archived: 2},
		{Name: "Fri", Completed: 1, InProgress: 0, ToDo: 0, Archived: 0},
		{Name: "Sat", Completed: 0, InProgress: 0, ToDo: 1, Archived: 0},
	}
}

func TestWeeklyTrendTotals(t *testing.T) {
	totals := WeeklyTrendTotals(weekFixture())

	assert.Equal(t, 11, totals.Completed)
	assert.Equal(t, 6, totals.InProgress)
	assert.Equal(t, 11, totals.ToDo)
	assert.Equal(t, 3, totals.Archived)
	// 11 / 31 = 35.48 -> 35.
	assert.Equal(t, 35, totals.CompletionRate)
}

func TestWeeklyTrendTotals_Empty(t *testing.T) {
	totals := WeeklyTrendTotals(nil)
	assert.Equal(t, TrendTotals{}, totals)
	assert.Equal(t, 0, totals.CompletionRate)
}

func TestVelocitySeries(t *testing.T) {
	points := VelocitySeries(weekFixture())

	assert.Len(t, points, 7)
	// Sun: created = toDo(3) + inProgress(1).
	assert.Equal(t, VelocityPoint{Name: "Sun", Created: 4, Completed: 2}, points[0])
	// Thu: nothing completed, 6 "created".
	assert.Equal(t, VelocityPoint{Name: "Thu", Created: 6, Completed: 0}, points[4])

	assert.Empty(t, VelocitySeries(nil))
}

func TestWeeklySummary(t *testing.T) {
	got := WeeklySummary(weekFixture())
	assert.Equal(t,
		"This week, most tasks were completed on Mon. Overall completion rate is 35%.",
		got,
	)
}

func TestWeeklySummary_Empty(t *testing.T) {
	assert.Equal(t, "No task activity in the last 7 days.", WeeklySummary(nil))
}
