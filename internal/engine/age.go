package engine

import (
	"errors"
	"time"

	"github.com/tartampluch/birthday-insights/internal/config"
)

// ErrInvalidRange is returned when the reference instant precedes the birth instant.
var ErrInvalidRange = errors.New(config.ErrInvalidRange)

const (
	monthsPerYear = 12
	secondsPerDay = 24 * 60 * 60
)

// AgeBreakdown is a snapshot of the time elapsed between a birth instant and a reference instant.
//
// Years, Months and Days decompose the span calendar-wise: advancing the birth date by
// Years years, the result by Months months (both through AddMonthsClamped) and then by
// Days days lands on the reference date. For a Feb 29 birth the year step may clamp to
// Feb 28, so Years*12+Months can exceed TotalMonths by one and Months can reach 12.
type AgeBreakdown struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`

	TotalMonths int `json:"total_months"`
	TotalDays   int `json:"total_days"`

	// DayOfLife counts the birth day as day 1.
	DayOfLife int `json:"day_of_life"`

	TotalHours   int64 `json:"total_hours"`
	TotalMinutes int64 `json:"total_minutes"`
	TotalSeconds int64 `json:"total_seconds"`
}

// Compute returns the breakdown of the time elapsed from birth to reference.
// The reference is interpreted in the birth's location so that both calendar
// dates are read on the same wall clock.
func Compute(birth, reference time.Time) (AgeBreakdown, error) {
	reference = reference.In(birth.Location())
	if reference.Before(birth) {
		return AgeBreakdown{}, ErrInvalidRange
	}

	totalMonths := wholeMonths(birth, reference)
	totalDays := wholeDays(birth, reference)
	seconds := elapsedSeconds(birth, reference)

	years := totalMonths / monthsPerYear
	yearAnchor := AddMonthsClamped(birth, years*monthsPerYear)
	months := wholeMonths(yearAnchor, reference)
	monthAnchor := AddMonthsClamped(yearAnchor, months)

	return AgeBreakdown{
		Years:        years,
		Months:       months,
		Days:         wholeDays(monthAnchor, reference),
		TotalMonths:  totalMonths,
		TotalDays:    totalDays,
		DayOfLife:    totalDays + 1,
		TotalHours:   seconds / 3600,
		TotalMinutes: seconds / 60,
		TotalSeconds: seconds,
	}, nil
}

// ComputeNow is Compute against the instant reported by clock.
func ComputeNow(clock Clock, birth time.Time) (AgeBreakdown, error) {
	if clock == nil {
		clock = RealClock{}
	}
	return Compute(birth, clock.Now())
}

// AddMonthsClamped shifts t by n calendar months, keeping its clock and location.
// A day-of-month that does not exist in the target month is clamped to the
// month's last day (Jan 31 + 1 month = Feb 28/29, Feb 29 + 12 months = Feb 28).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	index := int(m) - 1 + n
	year := y + floorDiv(index, monthsPerYear)
	month := time.Month(index-floorDiv(index, monthsPerYear)*monthsPerYear + 1)

	if last := daysIn(year, month); d > last {
		d = last
	}
	hour, minute, sec := t.Clock()
	return time.Date(year, month, d, hour, minute, sec, t.Nanosecond(), t.Location())
}

// Advance applies a breakdown to birth: years, then months, each through
// AddMonthsClamped, then whole days. Advance(birth, b.Years, b.Months, b.Days)
// falls on the reference date b was computed against.
func Advance(birth time.Time, years, months, days int) time.Time {
	return AddMonthsClamped(AddMonthsClamped(birth, years*monthsPerYear), months).AddDate(0, 0, days)
}

// Anniversary is the birthday of birth in year, at midnight in loc. Feb 29 is
// clamped to Feb 28 in common years, as in Compute.
func Anniversary(birth time.Time, year int, loc *time.Location) time.Time {
	start := time.Date(birth.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
	return AddMonthsClamped(start, (year-birth.Year())*monthsPerYear)
}

// wholeMonths counts the months m for which AddMonthsClamped(from, m) is not after to.
func wholeMonths(from, to time.Time) int {
	fy, fm, _ := from.Date()
	ty, tm, _ := to.Date()

	n := (ty-fy)*monthsPerYear + int(tm) - int(fm)
	if n > 0 && AddMonthsClamped(from, n).After(to) {
		n--
	}
	return n
}

// wholeDays counts civil days from from to to, minus one when the last day has
// not fully elapsed on the wall clock. Both instants must share a location.
// Days are wall-clock days, not 24-hour spans: across a DST change in a zoned
// location a day of 23 or 25 hours still counts as one.
func wholeDays(from, to time.Time) int {
	days := int((civilDay(to) - civilDay(from)) / secondsPerDay)
	if days > 0 && clockOf(to) < clockOf(from) {
		days--
	}
	return days
}

// elapsedSeconds avoids time.Duration, which saturates after ~292 years.
func elapsedSeconds(from, to time.Time) int64 {
	secs := to.Unix() - from.Unix()
	if secs > 0 && to.Nanosecond() < from.Nanosecond() {
		secs--
	}
	return secs
}

func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
