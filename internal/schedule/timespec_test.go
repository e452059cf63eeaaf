package schedule

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := map[string]int{
		"9:00 AM":  9 * 60,
		"9:00am":   9 * 60,
		"12:00 AM": 0,
		"12:00 PM": 12 * 60,
		"12:30 pm": 12*60 + 30,
		"6:45 PM":  18*60 + 45,
		"11:59 PM": 23*60 + 59,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		if err != nil {
			t.Fatalf("ParseClock(%q): unexpected error %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "9:00", "13:00 PM", "0:30 AM", "9:60 AM", "nine AM", "9:5 PM"} {
		if _, err := ParseClock(in); !errors.Is(err, ErrInvalidTimeFormat) {
			t.Fatalf("ParseClock(%q): expected ErrInvalidTimeFormat, got %v", in, err)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{
		0:         "12:00 AM",
		9 * 60:    "9:00 AM",
		12 * 60:   "12:00 PM",
		12*60 + 5: "12:05 PM",
		23*60 + 7: "11:07 PM",
	}
	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestClockRoundTripCanonicalizes(t *testing.T) {
	// Lowercase, unspaced input comes back in the canonical display form.
	min, err := ParseClock("9:00am")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatClock(min); got != "9:00 AM" {
		t.Fatalf("round trip = %q, want %q", got, "9:00 AM")
	}
}
