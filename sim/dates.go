package sim

import (
	"fmt"
	"time"
)

const daysPerYear = 365.25

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func yearStart(year int) time.Time { return date(year, time.January, 1) }

func yearEnd(year int) time.Time { return date(year, time.December, 31) }

// quarterEnd returns the last day of quarter q (1..4) of year.
func quarterEnd(year, q int) time.Time {
	// Day 0 of the following month is the last day of this one.
	return date(year, time.Month(q*3+1), 0)
}

// QuarterLabel formats a quarter-end date as "2021-Q3".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
}

// clampDate bounds t to [lo, hi].
func clampDate(t, lo, hi time.Time) time.Time {
	if t.Before(lo) {
		return lo
	}
	if t.After(hi) {
		return hi
	}
	return t
}

// ageYears is the fractional number of years between from and to, floored at 0.
func ageYears(from, to time.Time) float64 {
	age := to.Sub(from).Hours() / 24 / daysPerYear
	if age < 0 {
		return 0
	}
	return age
}

// monthDate places a flow on the 15th of the given month.
func monthDate(year, month int) time.Time {
	if month < 1 {
		month = 1
	}
	if month > 12 {
		month = 12
	}
	return date(year, time.Month(month), 15)
}
