package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func weekdayTemplates(weekdays []int, start, end string) []ScheduleTemplate {
	var templates []ScheduleTemplate
	for _, wd := range weekdays {
		templates = append(templates, ScheduleTemplate{Weekday: wd, StartTime: start, EndTime: end})
	}
	return templates
}

// 8h Mon-Fri over a 7-day range spanning one weekend yields 40 planned hours.
func TestPlannedHours_WeekdayTemplate(t *testing.T) {
	// 2024-03-04 is a Monday; the range covers Mon..Sun.
	r, err := NormalizeRange("2024-03-04", "2024-03-10", testNow)
	require.NoError(t, err)

	templates := weekdayTemplates([]int{1, 2, 3, 4, 5}, "08:00", "16:00")

	assert.Equal(t, 40.0, PlannedHours(r, templates, nil))
}

func TestPlannedHours_ExceptionZeroesDay(t *testing.T) {
	r, err := NormalizeRange("2024-03-04", "2024-03-10", testNow)
	require.NoError(t, err)

	templates := weekdayTemplates([]int{1, 2, 3, 4, 5}, "08:00", "16:00")
	exceptions := []ScheduleException{
		{Date: "2024-03-06", IsWorking: false}, // Wednesday off
	}

	assert.Equal(t, 32.0, PlannedHours(r, templates, exceptions))
}

func TestPlannedHours_ExceptionReplacesHours(t *testing.T) {
	r, err := NormalizeRange("2024-03-04", "2024-03-10", testNow)
	require.NoError(t, err)

	templates := weekdayTemplates([]int{1, 2, 3, 4, 5}, "08:00", "16:00")
	exceptions := []ScheduleException{
		// Half day Friday.
		{Date: "2024-03-08", IsWorking: true, StartTime: strPtr("08:00"), EndTime: strPtr("12:00")},
		// A working exception on a weekend day without times adds the
		// template hours for that weekday, which are zero.
		{Date: "2024-03-09", IsWorking: true},
	}

	assert.Equal(t, 36.0, PlannedHours(r, templates, exceptions))
}

func TestPlannedHours_SplitShifts(t *testing.T) {
	r, err := NormalizeRange("2024-03-04", "2024-03-04", testNow)
	require.NoError(t, err)

	// Two blocks on Monday: morning and afternoon.
	templates := []ScheduleTemplate{
		{Weekday: 1, StartTime: "08:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "13:00", EndTime: "17:30"},
	}

	assert.Equal(t, 8.5, PlannedHours(r, templates, nil))
}

func TestPlannedHours_NoTemplates(t *testing.T) {
	r, err := NormalizeRange("2024-03-04", "2024-03-10", testNow)
	require.NoError(t, err)

	assert.Equal(t, 0.0, PlannedHours(r, nil, nil))
}

func TestClockSpanHours_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, clockSpanHours("16:00", "08:00")) // inverted
	assert.Equal(t, 0.0, clockSpanHours("junk", "08:00"))
	assert.Equal(t, 0.0, clockSpanHours("08:00", "08:00"))
}
