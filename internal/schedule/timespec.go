package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTimeFormat reports a clock string that does not match the
// "h:mm AM/PM" form the dashboard stores. Callers fall back to the default
// hourly grid rather than failing the whole request.
var ErrInvalidTimeFormat = errors.New("invalid time format, expected h:mm AM/PM")

// Hour 1-12, minutes 00-59, optional space before a case-insensitive period.
var clockPattern = regexp.MustCompile(`^(1[0-2]|[1-9]):([0-5][0-9])\s*([AaPp][Mm])$`)

// ParseClock converts a 12-hour clock string ("9:00 AM", "12:30pm") to
// minutes since midnight. 12 AM maps to 0 and 12 PM to 720.
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(m[3], "PM") {
		hour += 12
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight in the canonical 12-hour form
// ("9:00 AM"). Input outside [0, 1440) wraps onto the day.
func FormatClock(minuteOfDay int) string {
	minuteOfDay = ((minuteOfDay % minutesPerDay) + minutesPerDay) % minutesPerDay
	hour := minuteOfDay / 60
	minute := minuteOfDay % 60
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, period)
}

const minutesPerDay = 24 * 60
