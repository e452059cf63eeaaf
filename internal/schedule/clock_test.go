package schedule

import (
	"testing"
	"time"
)

func TestWallClockConvertsZones(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	clock := NewClock(ny)

	// 2024-03-05 15:00 UTC is 10:00 AM in New York (EST, UTC-5).
	instant := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	date, minute := clock.WallClock(instant)
	if minute != 10*60 {
		t.Fatalf("minute = %d, want %d", minute, 10*60)
	}
	if date.Day() != 5 || date.Hour() != 0 {
		t.Fatalf("date = %v, want local midnight on the 5th", date)
	}
}

func TestWallClockCrossesDateLine(t *testing.T) {
	// 2024-03-05 02:00 UTC is still March 4th in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	clock := NewClock(ny)

	date, _ := clock.WallClock(time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC))
	if date.Day() != 4 {
		t.Fatalf("local date day = %d, want 4", date.Day())
	}
}

func TestInstantInvertsWallClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	clock := NewClock(ny)

	instant := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	date, minute := clock.WallClock(instant)
	back := clock.Instant(date, minute)
	if !back.Equal(instant) {
		t.Fatalf("round trip: got %v, want %v", back, instant)
	}
}

func TestNilZoneDefaultsToUTC(t *testing.T) {
	clock := NewClock(nil)
	if clock.Zone() != time.UTC {
		t.Fatalf("zone = %v, want UTC", clock.Zone())
	}
}

func TestSameDateUsesViewerZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	clock := NewClock(ny)

	// Both instants are March 4th in New York even though one is March 5th UTC.
	a := time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC)
	if !clock.SameDate(a, b) {
		t.Fatal("expected same local date")
	}
	if NewClock(time.UTC).SameDate(a, b) {
		t.Fatal("expected different UTC dates")
	}
}
