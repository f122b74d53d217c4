package utils

import "time"

// DateOnly truncates t to its calendar date, normalized to midnight UTC so
// date comparisons are independent of the source location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date as observed in loc.
func Today(loc *time.Location) time.Time {
	return DateOnly(time.Now().In(loc))
}
