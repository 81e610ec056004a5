package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fleetworks/fleetworks-backend/pkg/errors"
)

const dayFormat = "2006-01-02"

// Range is a normalized inclusive date range: canonical day strings plus
// the timestamp bounds [StartDay 00:00:00, EndDay 23:59:59].
type Range struct {
	StartDay string
	EndDay   string
	Start    time.Time
	End      time.Time

	// Ambiguous is set when a slash-delimited input had both components
	// <= 12, so the month-first default was a guess rather than a fact.
	Ambiguous bool
}

// StartBound and EndBound render the timestamp bounds in the shared
// 'YYYY-MM-DD HH:MM:SS' form both backends accept as parameters.
func (r Range) StartBound() string { return r.Start.Format("2006-01-02 15:04:05") }
func (r Range) EndBound() string   { return r.End.Format("2006-01-02 15:04:05") }

// Days iterates the calendar days of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// NormalizeRange parses heterogeneous start/end inputs into a canonical
// range. A missing start defaults to the epoch, a missing end to "now"
// (the caller-injected clock). Normalizing an already-canonical day
// returns it unchanged.
func NormalizeRange(start, end string, now time.Time) (Range, error) {
	var r Range

	startDay := time.Unix(0, 0).UTC()
	if start != "" {
		day, ambiguous, err := ParseDay(start)
		if err != nil {
			return Range{}, errors.Validation(map[string]string{"start_date": err.Error()})
		}
		startDay = day
		r.Ambiguous = r.Ambiguous || ambiguous
	}

	endDay := now.UTC()
	if end != "" {
		day, ambiguous, err := ParseDay(end)
		if err != nil {
			return Range{}, errors.Validation(map[string]string{"end_date": err.Error()})
		}
		endDay = day
		r.Ambiguous = r.Ambiguous || ambiguous
	}

	r.Start = time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, time.UTC)
	r.End = time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, time.UTC)
	r.StartDay = r.Start.Format(dayFormat)
	r.EndDay = r.End.Format(dayFormat)

	if r.End.Before(r.Start) {
		return Range{}, errors.Validation(map[string]string{
			"end_date": "must not be before start_date",
		})
	}

	return r, nil
}

// ParseDay accepts an ISO date, an ISO datetime, or a slash-delimited
// date. The ambiguous flag is true when a slash date could have been read
// either way (both components <= 12).
func ParseDay(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, "/") {
		return parseSlashDate(s)
	}

	for _, layout := range []string{
		dayFormat,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), false, nil
		}
	}

	return time.Time{}, false, fmt.Errorf("unrecognized date %q", s)
}

// parseSlashDate resolves A/B/Y: when one component exceeds 12 it must be
// the day; otherwise the input is ambiguous and month-first wins. The
// default is a documented heuristic, not a guarantee.
func parseSlashDate(s string) (time.Time, bool, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false, fmt.Errorf("unrecognized date %q", s)
	}

	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errA != nil || errB != nil || errY != nil {
		return time.Time{}, false, fmt.Errorf("unrecognized date %q", s)
	}
	if year < 100 {
		year += 2000
	}

	var month, day int
	ambiguous := false
	switch {
	case a > 12 && b <= 12:
		day, month = a, b
	case b > 12 && a <= 12:
		month, day = a, b
	case a <= 12 && b <= 12:
		month, day = a, b
		ambiguous = a != b
	default:
		return time.Time{}, false, fmt.Errorf("invalid date %q", s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false, fmt.Errorf("invalid date %q", s)
	}

	return t, ambiguous, nil
}
