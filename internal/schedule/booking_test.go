package schedule

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachdesk/internal/domain"
)

func TestIsTakenOverlapBounds(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	idx := NewBookingIndex([]domain.Lesson{{
		CoachID: primitive.NewObjectID(),
		Date:    day.Add(11 * time.Hour), // 11:00, 60 minutes
		Status:  domain.LessonScheduled,
	}}, clock)

	// Any candidate starting inside [11:00, 12:00) conflicts; candidates
	// whose own interval reaches into it conflict too.
	for _, minute := range []int{11 * 60, 11*60 + 30, 11*60 + 59, 10*60 + 30} {
		if !idx.IsTaken(day, minute, 60) {
			t.Fatalf("minute %d should conflict with the 11:00 lesson", minute)
		}
	}
	for _, minute := range []int{10 * 60, 12 * 60, 9 * 60} {
		if idx.IsTaken(day, minute, 60) {
			t.Fatalf("minute %d should not conflict", minute)
		}
	}
}

func TestIsTakenIgnoresCancelledLessons(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	idx := NewBookingIndex([]domain.Lesson{{
		Date:   day.Add(11 * time.Hour),
		Status: domain.LessonCancelled,
	}}, clock)

	if idx.IsTaken(day, 11*60, 60) {
		t.Fatal("cancelled lesson should not occupy the slot")
	}
}

func TestIsTakenNormalizesStoredInstants(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	clock := NewClock(ny)

	// Stored as 16:00 UTC; that's 11:00 AM on March 5th in New York.
	idx := NewBookingIndex([]domain.Lesson{{
		Date:   time.Date(2024, 3, 5, 16, 0, 0, 0, time.UTC),
		Status: domain.LessonScheduled,
	}}, clock)

	localDay := time.Date(2024, 3, 5, 0, 0, 0, 0, ny)
	if !idx.IsTaken(localDay, 11*60, 60) {
		t.Fatal("11:00 AM local should conflict with the stored UTC instant")
	}
	if idx.IsTaken(localDay, 16*60, 60) {
		t.Fatal("4:00 PM local should not conflict; raw UTC comparison leaked through")
	}
}

func TestBookingIndexForCoach(t *testing.T) {
	clock := NewClock(time.UTC)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	idx := NewBookingIndex([]domain.Lesson{{
		CoachID: other,
		Date:    day.Add(11 * time.Hour),
		Status:  domain.LessonScheduled,
	}}, clock)

	// Conflicts are per coach; another coach's lesson is irrelevant.
	if idx.ForCoach(mine).IsTaken(day, 11*60, 60) {
		t.Fatal("another coach's lesson should not conflict")
	}
	if !idx.ForCoach(other).IsTaken(day, 11*60, 60) {
		t.Fatal("owning coach's lesson should conflict")
	}
}
