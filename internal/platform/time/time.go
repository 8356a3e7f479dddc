// Package time contains the date and clock layouts tasks are stored with
package time

import (
	"fmt"
	"time"
)

// Layouts for stored task dates and times
const (
	DateLayout  = time.DateOnly
	ClockLayout = "15:04"
)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Today returns now's calendar date in loc as YYYY-MM-DD
func Today(now time.Time, loc *time.Location) string {
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil || len(s) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseClock returns the hour and minute of a zero-padded HH:MM
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil || len(s) != len(ClockLayout) {
		return 0, 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}
