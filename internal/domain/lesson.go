package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LessonStatus type for lesson lifecycle
type LessonStatus string

const (
	LessonScheduled LessonStatus = "scheduled"
	LessonCompleted LessonStatus = "completed"
	LessonCancelled LessonStatus = "cancelled"
)

// Lesson is a booked session between a Coach and a Client. Date is the
// absolute start instant, stored in UTC; the lesson occupies the coach's
// current slot interval starting at Date. Viewers see the instant converted
// to their own timezone.
type Lesson struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID  primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date     time.Time          `bson:"date" json:"date"`
	Title    string             `bson:"title,omitempty" json:"title,omitempty"`
	Status   LessonStatus       `bson:"status" json:"status"`

	// RecurrenceID groups the lessons created by one recurring booking.
	// Empty for single bookings.
	RecurrenceID string `bson:"recurrenceId,omitempty" json:"recurrenceId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
