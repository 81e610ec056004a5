package domain

import (
	"strconv"
	"strings"
)

// ScheduleTemplate is one weekly working block: weekday 0 (Sunday) to 6,
// clock times as "HH:MM".
type ScheduleTemplate struct {
	Weekday   int
	StartTime string
	EndTime   string
}

// ScheduleException overrides a specific calendar day: either not a
// working day at all, or different hours than the weekly template.
type ScheduleException struct {
	Date      string // YYYY-MM-DD
	IsWorking bool
	StartTime *string
	EndTime   *string
}

// PlannedHours computes the scheduled working hours over a range from the
// weekly template plus day-specific exceptions. Used as the fallback when
// a technician has no measured clock events in the range.
func PlannedHours(r Range, templates []ScheduleTemplate, exceptions []ScheduleException) float64 {
	weekdayHours := make(map[int]float64)
	for _, t := range templates {
		weekdayHours[t.Weekday] += clockSpanHours(t.StartTime, t.EndTime)
	}

	exceptionByDay := make(map[string]ScheduleException, len(exceptions))
	for _, e := range exceptions {
		exceptionByDay[e.Date] = e
	}

	var total float64
	for _, day := range r.Days() {
		key := day.Format(dayFormat)
		if exc, ok := exceptionByDay[key]; ok {
			if !exc.IsWorking {
				continue
			}
			if exc.StartTime != nil && exc.EndTime != nil {
				total += clockSpanHours(*exc.StartTime, *exc.EndTime)
				continue
			}
			// Working exception without times keeps the template hours.
		}
		total += weekdayHours[int(day.Weekday())]
	}

	return total
}

// clockSpanHours returns the hours between two "HH:MM" clock times,
// clamped to zero for inverted or unparseable spans.
func clockSpanHours(start, end string) float64 {
	s, okS := parseClockMinutes(start)
	e, okE := parseClockMinutes(end)
	if !okS || !okE || e <= s {
		return 0
	}
	return float64(e-s) / 60.0
}

func parseClockMinutes(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 3)
	if len(parts) < 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
