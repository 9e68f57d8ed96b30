// Package stats derives dashboard statistics, filtered views and
// chart-ready series from the flat expense collection. Every function is
// pure: same inputs and reference instant, same output.
//
// Calendar windows are anchored at a caller-supplied reference instant
// and evaluated on UTC calendar components. "Today" means same UTC
// year-month-day, "this month" same UTC year-month, "this year" same UTC
// year.
package stats

import (
	"time"

	"duitku/internal/core"
)

const (
	Day   TimeFrame = "day"
	Month TimeFrame = "month"
	Year  TimeFrame = "year"
)

// TimeFrame selects one of the calendar windows.
type TimeFrame string

func (tf TimeFrame) Valid() bool {
	switch tf {
	case Day, Month, Year:
		return true
	default:
		return false
	}
}

// SameDay reports whether d falls on ref's UTC calendar day.
func SameDay(d core.Date, ref time.Time) bool {
	ry, rm, rd := ref.UTC().Date()
	y, m, dd := d.Date()
	return y == ry && m == rm && dd == rd
}

// SameMonth reports whether d falls in ref's UTC calendar month.
func SameMonth(d core.Date, ref time.Time) bool {
	ry, rm, _ := ref.UTC().Date()
	y, m, _ := d.Date()
	return y == ry && m == rm
}

// SameYear reports whether d falls in ref's UTC calendar year.
func SameYear(d core.Date, ref time.Time) bool {
	return d.Year() == ref.UTC().Year()
}

// InWindow reports whether d falls in the tf window anchored at ref.
func InWindow(d core.Date, tf TimeFrame, ref time.Time) bool {
	switch tf {
	case Day:
		return SameDay(d, ref)
	case Month:
		return SameMonth(d, ref)
	case Year:
		return SameYear(d, ref)
	default:
		return false
	}
}
