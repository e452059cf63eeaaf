package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestExpandWeeklyWithWorkingDaysFilter(t *testing.T) {
	// Weekly from Monday March 4th through March 25th, Mondays only:
	// exactly the 4th, 11th, 18th and 25th.
	req := RecurrenceRequest{
		Start:       time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 3, 25, 23, 59, 0, 0, time.UTC),
		Pattern:     Weekly,
		Interval:    1,
		WorkingDays: []string{"Monday"},
	}
	got, err := Expand(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d occurrences, want 4", len(got))
	}
	for i, day := range []int{4, 11, 18, 25} {
		if got[i].Day() != day || got[i].Hour() != 10 {
			t.Fatalf("occurrence %d = %v, want March %d 10:00", i, got[i], day)
		}
	}
}

func TestExpandBiweeklyAndTriweekly(t *testing.T) {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC)

	bi, err := Expand(RecurrenceRequest{Start: start, End: end, Pattern: Biweekly, Interval: 1})
	if err != nil {
		t.Fatalf("biweekly: %v", err)
	}
	if len(bi) < 2 || bi[1].Sub(bi[0]) != 14*24*time.Hour {
		t.Fatalf("biweekly step = %v, want 14 days", bi[1].Sub(bi[0]))
	}

	tri, err := Expand(RecurrenceRequest{Start: start, End: end, Pattern: Triweekly, Interval: 1})
	if err != nil {
		t.Fatalf("triweekly: %v", err)
	}
	if len(tri) < 2 || tri[1].Sub(tri[0]) != 21*24*time.Hour {
		t.Fatalf("triweekly step = %v, want 21 days", tri[1].Sub(tri[0]))
	}
}

func TestExpandIntervalMultiplier(t *testing.T) {
	// Weekly x2 is every other week.
	got, err := Expand(RecurrenceRequest{
		Start:    time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 4, 1, 23, 59, 0, 0, time.UTC),
		Pattern:  Weekly,
		Interval: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 { // Mar 4, Mar 18, Apr 1
		t.Fatalf("got %d occurrences, want 3", len(got))
	}
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	// Starting January 31st, February clamps to the 29th (2024 is a leap
	// year) and March returns to the 31st instead of drifting.
	got, err := Expand(RecurrenceRequest{
		Start:    time.Date(2024, 1, 31, 14, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 4, 30, 23, 59, 0, 0, time.UTC),
		Pattern:  Monthly,
		Interval: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantDays := [][2]int{{1, 31}, {2, 29}, {3, 31}, {4, 30}}
	if len(got) != len(wantDays) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(wantDays))
	}
	for i, want := range wantDays {
		if int(got[i].Month()) != want[0] || got[i].Day() != want[1] {
			t.Fatalf("occurrence %d = %v, want month %d day %d", i, got[i], want[0], want[1])
		}
		if got[i].Hour() != 14 {
			t.Fatalf("occurrence %d lost its time of day: %v", i, got[i])
		}
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	req := RecurrenceRequest{
		Start:    time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		End:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Pattern:  Weekly,
		Interval: 1,
	}
	first, err := Expand(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("occurrence %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestExpandRequiresEndDate(t *testing.T) {
	_, err := Expand(RecurrenceRequest{
		Start:   time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		Pattern: Weekly,
	})
	if !errors.Is(err, ErrMissingEndDate) {
		t.Fatalf("expected ErrMissingEndDate, got %v", err)
	}
}

func TestExpandRejectsOversizedRange(t *testing.T) {
	_, err := Expand(RecurrenceRequest{
		Start:    time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		End:      time.Date(2060, 3, 4, 10, 0, 0, 0, time.UTC),
		Pattern:  Weekly,
		Interval: 1,
	})
	if !errors.Is(err, ErrRecurrenceBoundsExceeded) {
		t.Fatalf("expected ErrRecurrenceBoundsExceeded, got %v", err)
	}
}

func TestExpandRejectsUnknownPattern(t *testing.T) {
	_, err := Expand(RecurrenceRequest{
		Start:   time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 4, 4, 10, 0, 0, 0, time.UTC),
		Pattern: "fortnightly",
	})
	if err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestExpandEndBeforeStartIsEmpty(t *testing.T) {
	got, err := Expand(RecurrenceRequest{
		Start:   time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Pattern: Weekly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d occurrences, want 0", len(got))
	}
}
