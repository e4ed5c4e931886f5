package timeutil

import (
	"fmt"
	"time"
)

// DurationString formats a duration as HH:MM, hours unbounded.
func DurationString(d time.Duration) string {
	seconds := int64(d.Seconds())
	hours := seconds / 3600
	minutes := (seconds - hours*3600) / 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// DateOf strips the clock from t, keeping its location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ClockOf keeps only the clock components of t on the zero date.
func ClockOf(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// Combine builds a wall-clock timestamp from a calendar date and a
// time of day in the given location. A nil clock means midnight, a nil
// location means UTC.
func Combine(date time.Time, clock *time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	h, m, s := 0, 0, 0
	if clock != nil {
		h, m, s = clock.Hour(), clock.Minute(), clock.Second()
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, loc)
}

// IsMidnight reports whether t is exactly 00:00:00.
func IsMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// SameDate reports whether a and b fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
