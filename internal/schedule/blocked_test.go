package schedule

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachdesk/internal/domain"
)

func TestBlocksAtPartialRange(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	idx := NewBlockedTimeIndex([]domain.BlockedTime{{
		Title:     "Dentist",
		StartTime: day.Add(11 * time.Hour),
		EndTime:   day.Add(13 * time.Hour),
	}}, clock)

	if b := idx.BlocksAt(day, 10*60); b != nil {
		t.Fatalf("10:00 should be unblocked, got %q", b.Title)
	}
	if b := idx.BlocksAt(day, 11*60); b == nil || b.Title != "Dentist" {
		t.Fatalf("11:00 should be blocked by Dentist, got %v", b)
	}
	if b := idx.BlocksAt(day, 12*60+59); b == nil {
		t.Fatal("12:59 should be blocked")
	}
	// End is exclusive.
	if b := idx.BlocksAt(day, 13*60); b != nil {
		t.Fatalf("13:00 should be unblocked, got %q", b.Title)
	}
}

func TestBlocksAtFullDayIgnoresTimeOfDay(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	// The stored range covers only part of the day, but IsAllDay widens it
	// to the whole calendar day.
	idx := NewBlockedTimeIndex([]domain.BlockedTime{{
		Title:     "Vacation",
		StartTime: day.Add(9 * time.Hour),
		EndTime:   day.Add(10 * time.Hour),
		IsAllDay:  true,
	}}, clock)

	for _, minute := range []int{0, 8 * 60, 12 * 60, 23*60 + 59} {
		if b := idx.BlocksAt(day, minute); b == nil {
			t.Fatalf("minute %d should be blocked on an all-day block", minute)
		}
	}
	if b := idx.BlocksAt(day.AddDate(0, 0, 1), 9*60); b != nil {
		t.Fatal("next day should not be blocked")
	}
}

func TestBlocksAtFullDayMultiDayRange(t *testing.T) {
	clock := NewClock(time.UTC)
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 7, 9, 0, 0, 0, time.UTC)
	idx := NewBlockedTimeIndex([]domain.BlockedTime{{
		Title: "Conference", StartTime: start, EndTime: end, IsAllDay: true,
	}}, clock)

	// Every day the range touches is fully covered, including the partial
	// first and last days.
	for d := 5; d <= 7; d++ {
		day := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
		if idx.BlocksAt(day, 23*60) == nil {
			t.Fatalf("March %d 23:00 should be blocked", d)
		}
	}
	if idx.BlocksAt(time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), 9*60) != nil {
		t.Fatal("March 8 should not be blocked")
	}
}

func TestBlockedIndexForCoach(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	idx := NewBlockedTimeIndex([]domain.BlockedTime{
		{CoachID: other, Title: "Other coach", StartTime: day, EndTime: day.AddDate(0, 0, 1), IsAllDay: true},
	}, clock)

	if idx.ForCoach(mine).BlocksAt(day, 9*60) != nil {
		t.Fatal("another coach's block should not apply")
	}
	if idx.ForCoach(other).BlocksAt(day, 9*60) == nil {
		t.Fatal("owning coach's block should apply")
	}
}
