package service

import (
	"time"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// dayRange returns [00:00, next day 00:00) of t's calendar day in loc
func dayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// monthRange returns [first day 00:00, first day of next month 00:00) in loc
func monthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}
