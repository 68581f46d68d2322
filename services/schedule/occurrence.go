package schedule

import (
	"time"

	"habitloop/models"
)

// NextOccurrence advances original past now in repeat-sized steps and returns
// the first instant strictly after now. For RepeatNone the input is returned
// unchanged; one-shot records are deleted after firing, not rescheduled.
//
// Missed occurrences are never back-filled: a daily reminder that could not
// fire for three days catches up to exactly the next future slot. Calendar
// steps (AddDate) keep the wall-clock time stable across DST transitions.
// Idempotent for a fixed now.
func NextOccurrence(original time.Time, repeat models.Repeat, now time.Time) time.Time {
	var step func(time.Time) time.Time
	switch repeat {
	case models.RepeatDaily:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }
	case models.RepeatWeekly:
		step = func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }
	default:
		return original
	}

	t := original
	for !t.After(now) {
		t = step(t)
	}
	return t
}

// nextDailyOccurrence returns the next local wall-clock occurrence of
// hour:minute; if that time today has already passed, tomorrow's.
func nextDailyOccurrence(hour, minute int, now time.Time) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// nextWeeklyOccurrence returns the next local occurrence of hour:minute on
// the given weekday.
func nextWeeklyOccurrence(weekday time.Weekday, hour, minute int, now time.Time) time.Time {
	daysAhead := (int(weekday) - int(now.Weekday()) + 7) % 7
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	t = t.AddDate(0, 0, daysAhead)
	if !t.After(now) {
		t = t.AddDate(0, 0, 7)
	}
	return t
}
