package schedule

import "time"

// Clock converts between stored absolute instants and the viewer's local
// wall-clock representation. Every comparison in this package that mixes an
// instant with a (date, minute-of-day) pair goes through a Clock; comparing
// raw stored instants against locally constructed wall-clock values is
// exactly the bug class this type exists to prevent.
type Clock struct {
	zone *time.Location
}

// NewClock returns a Clock for the viewer's IANA zone. A nil zone means UTC.
func NewClock(zone *time.Location) Clock {
	if zone == nil {
		zone = time.UTC
	}
	return Clock{zone: zone}
}

// Zone returns the clock's location.
func (c Clock) Zone() *time.Location {
	if c.zone == nil {
		return time.UTC
	}
	return c.zone
}

// WallClock converts an instant to the viewer-local calendar date (midnight
// in the clock's zone) and minute of day.
func (c Clock) WallClock(instant time.Time) (date time.Time, minuteOfDay int) {
	t := instant.In(c.Zone())
	date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Zone())
	return date, t.Hour()*60 + t.Minute()
}

// Instant builds the absolute instant for a viewer-local date plus minute of
// day.
func (c Clock) Instant(date time.Time, minuteOfDay int) time.Time {
	d := date.In(c.Zone())
	return time.Date(d.Year(), d.Month(), d.Day(), 0, minuteOfDay, 0, 0, c.Zone())
}

// DateOf truncates an instant to its viewer-local calendar date.
func (c Clock) DateOf(instant time.Time) time.Time {
	date, _ := c.WallClock(instant)
	return date
}

// SameDate reports whether two instants fall on the same viewer-local
// calendar day.
func (c Clock) SameDate(a, b time.Time) bool {
	a, b = a.In(c.Zone()), b.In(c.Zone())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
