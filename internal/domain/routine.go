package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Routine is a Program assigned to a specific client. CoachID is
// denormalized from the program for easier query/auth.
type Routine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProgramID primitive.ObjectID `bson:"programId" json:"programId"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name      string             `bson:"name" json:"name"` // Copied from the program at assignment time
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	StartDate *time.Time         `bson:"startDate,omitempty" json:"startDate,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
