package schedule

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"coachdesk/internal/domain"
)

// BookingIndex answers whether a candidate slot collides with an existing
// lesson. Stored lesson instants are normalized to the viewer's zone before
// any comparison. Cancelled lessons never occupy a slot.
type BookingIndex struct {
	clock   Clock
	lessons []domain.Lesson
}

// NewBookingIndex builds an index over the lessons fetched for the target
// window, evaluated in the viewer's zone.
func NewBookingIndex(lessons []domain.Lesson, clock Clock) *BookingIndex {
	return &BookingIndex{clock: clock, lessons: lessons}
}

// ForCoach narrows the index to one coach. Lessons conflict only when they
// share a coach; client identity is irrelevant here.
func (idx *BookingIndex) ForCoach(coachID primitive.ObjectID) *BookingIndex {
	filtered := make([]domain.Lesson, 0, len(idx.lessons))
	for _, l := range idx.lessons {
		if l.CoachID == coachID {
			filtered = append(filtered, l)
		}
	}
	return &BookingIndex{clock: idx.clock, lessons: filtered}
}

// LessonAt returns the lesson occupying the candidate slot
// [minuteOfDay, minuteOfDay+durationMinutes) on the given local date, or nil.
// A lesson occupies durationMinutes starting at its own minute of day; the
// two half-open intervals conflict when they intersect.
func (idx *BookingIndex) LessonAt(date time.Time, minuteOfDay, durationMinutes int) *domain.Lesson {
	for i := range idx.lessons {
		l := &idx.lessons[i]
		if l.Status == domain.LessonCancelled {
			continue
		}
		lessonDate, lessonMinute := idx.clock.WallClock(l.Date)
		if !lessonDate.Equal(idx.clock.DateOf(date)) {
			continue
		}
		if lessonMinute < minuteOfDay+durationMinutes && minuteOfDay < lessonMinute+durationMinutes {
			return l
		}
	}
	return nil
}

// IsTaken reports whether the candidate slot collides with any lesson.
func (idx *BookingIndex) IsTaken(date time.Time, minuteOfDay, durationMinutes int) bool {
	return idx.LessonAt(date, minuteOfDay, durationMinutes) != nil
}
