// Package clock converts file timestamps to local wall-clock fields.
package clock

import "time"

// recentWindow is how far back a timestamp still shows hour and minute.
const recentWindow = 183 * 24 * time.Hour

// Wall is a broken-down local time.
type Wall struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// Clock converts timestamps in one location relative to a fixed "now".
type Clock struct {
	loc *time.Location
	now time.Time
}

// New returns a clock for loc (time.Local when nil) anchored at now.
func New(loc *time.Location, now time.Time) Clock {
	if loc == nil {
		loc = time.Local
	}
	return Clock{loc: loc, now: now}
}

// Local breaks t down in the clock's location.
func (c Clock) Local(t time.Time) Wall {
	lt := t.In(c.loc)
	return Wall{
		Year:   lt.Year(),
		Month:  lt.Month(),
		Day:    lt.Day(),
		Hour:   lt.Hour(),
		Minute: lt.Minute(),
	}
}

// Recent reports whether t lies within the last six months and not in the
// future.
func (c Clock) Recent(t time.Time) bool {
	return !t.After(c.now) && c.now.Sub(t) < recentWindow
}
