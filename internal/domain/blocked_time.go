package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockedTime marks a range as unavailable for booking without originating
// from a lesson. A full-day block covers every calendar day its range
// touches, ignoring time of day; a partial block covers [StartTime, EndTime).
// Blocks are advisory: they disable slots in the picker, but a coach can
// still deliberately book into one, and adding a block never cancels lessons
// that already exist inside it.
type BlockedTime struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	Title     string             `bson:"title" json:"title"`
	StartTime time.Time          `bson:"startTime" json:"startTime"`
	EndTime   time.Time          `bson:"endTime" json:"endTime"`
	IsAllDay  bool               `bson:"isAllDay" json:"isAllDay"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
