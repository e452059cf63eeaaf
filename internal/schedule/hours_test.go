package schedule

import (
	"errors"
	"testing"
	"time"

	"coachdesk/internal/domain"
)

// 2024-03-05 is a Tuesday.
var tuesday = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func TestEffectiveHoursGlobal(t *testing.T) {
	hours := &domain.WorkingHours{
		StartTime:           "9:00 AM",
		EndTime:             "5:00 PM",
		WorkingDays:         []string{"Monday", "Tuesday", "Wednesday"},
		SlotIntervalMinutes: 30,
	}

	got, err := EffectiveHours(tuesday, hours, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DayHours{StartMinute: 9 * 60, EndMinute: 17 * 60, IntervalMinutes: 30}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestEffectiveHoursNonWorkingDay(t *testing.T) {
	hours := &domain.WorkingHours{
		StartTime:           "9:00 AM",
		EndTime:             "5:00 PM",
		WorkingDays:         []string{"Monday"},
		SlotIntervalMinutes: 60,
	}
	if _, err := EffectiveHours(tuesday, hours, nil); !errors.Is(err, ErrDayUnavailable) {
		t.Fatalf("expected ErrDayUnavailable, got %v", err)
	}
}

func TestEffectiveHoursOverrideReplacesGlobal(t *testing.T) {
	hours := &domain.WorkingHours{
		StartTime:           "9:00 AM",
		EndTime:             "5:00 PM",
		WorkingDays:         []string{"Tuesday"},
		SlotIntervalMinutes: 60,
	}
	overrides := map[string]domain.CustomDayOverride{
		"Tuesday": {Enabled: true, StartTime: "7:00 AM", EndTime: "1:00 PM"},
	}

	got, err := EffectiveHours(tuesday, hours, overrides)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StartMinute != 7*60 || got.EndMinute != 13*60 {
		t.Fatalf("override not applied: %+v", got)
	}
}

func TestEffectiveHoursOverrideDisabledDay(t *testing.T) {
	// A disabled override makes the day unavailable even though the global
	// configuration would allow it, and a missing override does the same
	// once any overrides exist.
	hours := &domain.WorkingHours{
		StartTime:           "9:00 AM",
		EndTime:             "5:00 PM",
		WorkingDays:         []string{"Tuesday", "Wednesday"},
		SlotIntervalMinutes: 60,
	}
	overrides := map[string]domain.CustomDayOverride{
		"Tuesday": {Enabled: false, StartTime: "7:00 AM", EndTime: "1:00 PM"},
	}

	if _, err := EffectiveHours(tuesday, hours, overrides); !errors.Is(err, ErrDayUnavailable) {
		t.Fatalf("disabled override: expected ErrDayUnavailable, got %v", err)
	}

	wednesday := tuesday.AddDate(0, 0, 1)
	if _, err := EffectiveHours(wednesday, hours, overrides); !errors.Is(err, ErrDayUnavailable) {
		t.Fatalf("missing override: expected ErrDayUnavailable, got %v", err)
	}
}

func TestEffectiveHoursNoConfiguration(t *testing.T) {
	got, err := EffectiveHours(tuesday, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultHours() {
		t.Fatalf("got %+v, want defaults %+v", got, DefaultHours())
	}
}

func TestEffectiveHoursInvertedRange(t *testing.T) {
	hours := &domain.WorkingHours{
		StartTime:           "5:00 PM",
		EndTime:             "9:00 AM",
		WorkingDays:         []string{"Tuesday"},
		SlotIntervalMinutes: 60,
	}
	if _, err := EffectiveHours(tuesday, hours, nil); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestValidateWorkingHours(t *testing.T) {
	bad := domain.WorkingHours{StartTime: "9:00 AM", EndTime: "9:00 AM", WorkingDays: []string{"Monday"}, SlotIntervalMinutes: 60}
	if err := ValidateWorkingHours(bad); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("equal start/end: expected ErrInvalidRange, got %v", err)
	}

	bad.EndTime = "6:00 PM"
	bad.SlotIntervalMinutes = 0
	if err := ValidateWorkingHours(bad); err == nil {
		t.Fatal("zero interval: expected error")
	}

	bad.SlotIntervalMinutes = 45
	bad.WorkingDays = []string{"Funday"}
	if err := ValidateWorkingHours(bad); err == nil {
		t.Fatal("unknown weekday: expected error")
	}
}

func TestValidateOverridesChecksEnabledDaysOnly(t *testing.T) {
	overrides := map[string]domain.CustomDayOverride{
		"Monday":  {Enabled: false, StartTime: "garbage", EndTime: "more garbage"},
		"Tuesday": {Enabled: true, StartTime: "9:00 AM", EndTime: "5:00 PM"},
	}
	if err := ValidateOverrides(overrides); err != nil {
		t.Fatalf("disabled day should not be validated: %v", err)
	}

	overrides["Tuesday"] = domain.CustomDayOverride{Enabled: true, StartTime: "5:00 PM", EndTime: "9:00 AM"}
	if err := ValidateOverrides(overrides); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestEnabledDays(t *testing.T) {
	overrides := map[string]domain.CustomDayOverride{
		"Monday":   {Enabled: true, StartTime: "9:00 AM", EndTime: "5:00 PM"},
		"Tuesday":  {Enabled: false},
		"Saturday": {Enabled: true, StartTime: "10:00 AM", EndTime: "2:00 PM"},
	}
	got := EnabledDays(overrides)
	if len(got) != 2 || got[0] != "Monday" || got[1] != "Saturday" {
		t.Fatalf("got %v, want [Monday Saturday]", got)
	}
}
