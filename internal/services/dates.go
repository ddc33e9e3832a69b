package services

import "time"

// dateOnly truncates a timestamp to its calendar date, pinned to UTC so
// dates parsed from request strings and dates taken from the wall clock
// compare as the same instant regardless of the host zone.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateInRange reports whether d falls inside [start, end], comparing date
// parts only (budget ranges are inclusive on both ends).
func dateInRange(d, start, end time.Time) bool {
	d = dateOnly(d)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}
