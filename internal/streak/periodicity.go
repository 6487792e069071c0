// ABOUTME: Periodicity rules deciding whether two completions are continuous.
// ABOUTME: Also decides whether a streak is broken as of a given instant.
package streak

import (
	"time"

	"github.com/harperreed/habits/internal/models"
)

// ErrInvalidPeriodicity is returned for unknown periodicity tags.
var ErrInvalidPeriodicity = models.ErrInvalidPeriodicity

// IsContinuous reports whether current follows previous without breaking a
// streak. Callers pass previous <= current.
//
//   - daily: current falls on the calendar day after previous.
//   - weekly: same weekday, at most 7 whole days apart.
//   - monthly: same calendar month and year.
func IsContinuous(p models.Periodicity, previous, current time.Time) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	return isContinuous(p, previous, current), nil
}

// isContinuous assumes p has been validated.
func isContinuous(p models.Periodicity, previous, current time.Time) bool {
	current = current.In(previous.Location())
	switch p {
	case models.Daily:
		return sameDay(current, previous.AddDate(0, 0, 1))
	case models.Weekly:
		return current.Weekday() == previous.Weekday() && WholeDays(previous, current) <= 7
	case models.Monthly:
		return current.Year() == previous.Year() && current.Month() == previous.Month()
	}
	return false
}

// IsBroken reports whether a streak whose latest completion is last has
// lapsed by now.
//
//   - daily: now is later than the calendar day after last.
//   - weekly: more than 7 whole days have elapsed.
//   - monthly: now is two or more calendar months past last's month.
func IsBroken(p models.Periodicity, last, now time.Time) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	now = now.In(last.Location())
	switch p {
	case models.Daily:
		return startOfDay(now).After(startOfDay(last.AddDate(0, 0, 1))), nil
	case models.Weekly:
		return WholeDays(last, now) > 7, nil
	default:
		return monthIndex(now)-monthIndex(last) >= 2, nil
	}
}

// sameDay reports whether a and b share a calendar date in a's location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WholeDays returns the whole days from from to to, floored, measured on
// the wall clock of from's location. A DST shift does not change the count.
func WholeDays(from, to time.Time) int {
	d := wallClock(to.In(from.Location())).Sub(wallClock(from))
	days := d / (24 * time.Hour)
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return int(days)
}

// wallClock maps t's local reading onto UTC, where every day is 24 hours.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func monthIndex(t time.Time) int {
	return t.Year()*12 + int(t.Month()) - 1
}
