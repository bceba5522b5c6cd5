// Package calendar provides day-granular date arithmetic for the planning
// kernel. Every date handled by the planner is a UTC midnight; this package
// is the only place that normalization happens.
package calendar

import "time"

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC date at day granularity.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts d by n calendar days. n may be negative.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// DaysBetween returns the signed number of days from a to b. Both operands
// are truncated to day granularity first, so the result is exact.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// DayOfYear returns the 1-based ordinal of d within its year.
func DayOfYear(d time.Time) int {
	return d.YearDay()
}

// FromDayOfYear resolves a 1-based ordinal day to a date in year.
func FromDayOfYear(year, doy int) time.Time {
	return Date(year, time.January, 1).AddDate(0, 0, doy-1)
}

// DaysInMonth returns the length of the given month, accounting for leap
// years.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartOfYear returns January 1 of year.
func StartOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// EndOfYear returns December 31 of year.
func EndOfYear(year int) time.Time {
	return Date(year, time.December, 31)
}

// Earlier returns the earlier of a and b.
func Earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Later returns the later of a and b.
func Later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
