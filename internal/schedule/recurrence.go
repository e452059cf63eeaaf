package schedule

import (
	"errors"
	"fmt"
	"time"
)

// Pattern is a recurrence repeat pattern.
type Pattern string

const (
	Weekly    Pattern = "weekly"
	Biweekly  Pattern = "biweekly"
	Triweekly Pattern = "triweekly"
	Monthly   Pattern = "monthly"
)

// MaxOccurrences bounds how many lesson instants one recurring request may
// produce: five years of weekly lessons. A request whose end date would
// produce more is rejected before expansion begins.
const MaxOccurrences = 260

var (
	ErrRecurrenceBoundsExceeded = errors.New("recurrence bounds exceeded")
	ErrMissingEndDate           = errors.New("recurrence requires an end date")
)

// RecurrenceRequest describes a recurring booking to expand. Start carries
// the first lesson's instant (date and time of day); End is the inclusive
// upper bound. WorkingDays, when non-empty, restricts emitted occurrences to
// those weekday names without altering the stepping.
type RecurrenceRequest struct {
	Start       time.Time
	End         time.Time
	Pattern     Pattern
	Interval    int // multiplier on the pattern's base step, >= 1
	WorkingDays []string
}

// Expand produces the ordered sequence of lesson instants for a request.
// It is a pure function: identical requests yield identical sequences.
//
// Weekly/biweekly/triweekly step by 1, 2 or 3 weeks times Interval.
// Monthly steps by Interval calendar months, computed from the start date
// each time so a month-end start clamps in short months (Jan 31 -> Feb 29)
// without drifting the rest of the sequence off its day of month.
func Expand(req RecurrenceRequest) ([]time.Time, error) {
	if req.End.IsZero() {
		return nil, ErrMissingEndDate
	}
	if req.End.Before(req.Start) {
		return nil, nil
	}

	interval := req.Interval
	if interval < 1 {
		interval = 1
	}

	weeksPerStep := 0
	switch req.Pattern {
	case Weekly:
		weeksPerStep = 1
	case Biweekly:
		weeksPerStep = 2
	case Triweekly:
		weeksPerStep = 3
	case Monthly:
	default:
		return nil, fmt.Errorf("unknown recurrence pattern %q", req.Pattern)
	}

	if n := occurrenceBound(req.Start, req.End, req.Pattern, interval, weeksPerStep); n > MaxOccurrences {
		return nil, fmt.Errorf("%w: %d occurrences, limit %d", ErrRecurrenceBoundsExceeded, n, MaxOccurrences)
	}

	var filter map[string]bool
	if len(req.WorkingDays) > 0 {
		filter = make(map[string]bool, len(req.WorkingDays))
		for _, day := range req.WorkingDays {
			filter[day] = true
		}
	}

	var out []time.Time
	for i := 0; ; i++ {
		var current time.Time
		if req.Pattern == Monthly {
			current = addMonthsClamped(req.Start, i*interval)
		} else {
			current = req.Start.AddDate(0, 0, 7*weeksPerStep*interval*i)
		}
		if current.After(req.End) {
			break
		}
		if filter != nil && !filter[current.Weekday().String()] {
			continue
		}
		if len(out) > 0 && out[len(out)-1].Equal(current) {
			continue
		}
		out = append(out, current)
	}
	return out, nil
}

// occurrenceBound estimates the iteration count for a request so oversized
// ranges are rejected without walking them.
func occurrenceBound(start, end time.Time, pattern Pattern, interval, weeksPerStep int) int {
	if pattern == Monthly {
		months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
		return months/interval + 1
	}
	days := int(end.Sub(start).Hours() / 24)
	return days/(7*weeksPerStep*interval) + 1
}

// addMonthsClamped adds calendar months, clamping the day of month to the
// target month's length. time.AddDate would normalize Jan 31 + 1 month into
// March instead.
func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
