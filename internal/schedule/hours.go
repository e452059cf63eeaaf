package schedule

import (
	"errors"
	"fmt"
	"time"

	"coachdesk/internal/domain"
)

var (
	// ErrDayUnavailable marks a date with no effective working hours. Not a
	// failure: callers render an empty slot list.
	ErrDayUnavailable = errors.New("no working hours for this day")
	// ErrInvalidRange reports an end time at or before the start time.
	ErrInvalidRange = errors.New("end time must be after start time")
)

// DayHours is the resolved working window for one calendar date.
type DayHours struct {
	StartMinute     int
	EndMinute       int
	IntervalMinutes int
}

// Canonical defaults applied when a coach has no saved configuration.
// 9:00 AM to 6:00 PM matches the documented fallback grid.
const (
	DefaultStartMinute     = 9 * 60
	DefaultEndMinute       = 18 * 60
	DefaultIntervalMinutes = 60
)

// DefaultHours returns the default working window: hourly, 9 AM to 6 PM,
// every day of the week enabled.
func DefaultHours() DayHours {
	return DayHours{
		StartMinute:     DefaultStartMinute,
		EndMinute:       DefaultEndMinute,
		IntervalMinutes: DefaultIntervalMinutes,
	}
}

// EffectiveHours resolves the working window for a specific date.
//
// Per-weekday overrides, when present, replace the global configuration
// entirely: an enabled override supplies that day's start/end, a disabled
// (or missing) override makes the day unavailable. Without overrides the
// global hours apply on the configured working days. A coach with no
// configuration at all works the default window every day.
func EffectiveHours(date time.Time, hours *domain.WorkingHours, overrides map[string]domain.CustomDayOverride) (DayHours, error) {
	day := date.Weekday().String()

	interval := DefaultIntervalMinutes
	if hours != nil && hours.SlotIntervalMinutes > 0 {
		interval = hours.SlotIntervalMinutes
	}

	if len(overrides) > 0 {
		ov, ok := overrides[day]
		if !ok || !ov.Enabled {
			return DayHours{}, ErrDayUnavailable
		}
		return resolveWindow(ov.StartTime, ov.EndTime, interval)
	}

	if hours == nil {
		return DefaultHours(), nil
	}
	if !containsDay(hours.WorkingDays, day) {
		return DayHours{}, ErrDayUnavailable
	}
	return resolveWindow(hours.StartTime, hours.EndTime, interval)
}

func resolveWindow(start, end string, interval int) (DayHours, error) {
	startMinute, err := ParseClock(start)
	if err != nil {
		return DayHours{}, err
	}
	endMinute, err := ParseClock(end)
	if err != nil {
		return DayHours{}, err
	}
	if endMinute <= startMinute {
		return DayHours{}, fmt.Errorf("%w: %s to %s", ErrInvalidRange, start, end)
	}
	return DayHours{StartMinute: startMinute, EndMinute: endMinute, IntervalMinutes: interval}, nil
}

// ValidateWorkingHours checks a global configuration before it is saved.
func ValidateWorkingHours(hours domain.WorkingHours) error {
	if hours.SlotIntervalMinutes <= 0 {
		return fmt.Errorf("slot interval must be positive, got %d", hours.SlotIntervalMinutes)
	}
	for _, day := range hours.WorkingDays {
		if !validWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
	}
	_, err := resolveWindow(hours.StartTime, hours.EndTime, hours.SlotIntervalMinutes)
	return err
}

// ValidateOverrides checks per-weekday overrides before they are saved. The
// start/end ordering constraint applies to every enabled day.
func ValidateOverrides(overrides map[string]domain.CustomDayOverride) error {
	for day, ov := range overrides {
		if !validWeekday(day) {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if !ov.Enabled {
			continue
		}
		if _, err := resolveWindow(ov.StartTime, ov.EndTime, DefaultIntervalMinutes); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

// EnabledDays derives the working-day set from a set of overrides.
func EnabledDays(overrides map[string]domain.CustomDayOverride) []string {
	var days []string
	for _, name := range weekdayNames {
		if ov, ok := overrides[name]; ok && ov.Enabled {
			days = append(days, name)
		}
	}
	return days
}

var weekdayNames = []string{
	time.Sunday.String(), time.Monday.String(), time.Tuesday.String(),
	time.Wednesday.String(), time.Thursday.String(), time.Friday.String(),
	time.Saturday.String(),
}

func validWeekday(name string) bool {
	return containsDay(weekdayNames, name)
}

func containsDay(days []string, name string) bool {
	for _, d := range days {
		if d == name {
			return true
		}
	}
	return false
}
