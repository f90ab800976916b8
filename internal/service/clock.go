package service

import "time"

// Clock supplies the current instant and the zone calendar days are counted in.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a wall clock for loc, falling back to UTC.
func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Current returns now in the clock's zone.
func (c Clock) Current() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.loc())
}

// StartOfDay truncates t to midnight of its calendar day in the clock's zone.
func (c Clock) StartOfDay(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// Today returns midnight of the current calendar day.
func (c Clock) Today() time.Time {
	return c.StartOfDay(c.Current())
}

// DayKey names the calendar day t falls on.
func (c Clock) DayKey(t time.Time) string {
	return t.In(c.loc()).Format(time.DateOnly)
}
