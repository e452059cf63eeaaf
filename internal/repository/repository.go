package repository

import (
	"coachdesk/internal/domain" // Import our defined domain models
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict with existing record")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
	GetCoachesByOrganizationID(ctx context.Context, organizationID primitive.ObjectID) ([]domain.User, error)
	UpdateWorkingHours(ctx context.Context, coachID primitive.ObjectID, hours *domain.WorkingHours) error
	UpdateCustomWorkingHours(ctx context.Context, coachID primitive.ObjectID, overrides map[string]domain.CustomDayOverride) error
}

// LessonRepository defines the interface for interacting with lesson data.
// Create must fail with ErrConflict when a lesson already exists for the
// same coach at the same instant; the unique index is the final authority
// on booking races, not the slot list the client saw.
type LessonRepository interface {
	Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error)
	GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	GetByCoachesAndRange(ctx context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	GetByClientAndRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error // Ensure coach owns the lesson
}

// BlockedTimeRepository defines the interface for interacting with blocked-time data.
type BlockedTimeRepository interface {
	Create(ctx context.Context, block *domain.BlockedTime) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BlockedTime, error)
	GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error)
	GetByCoachesAndRange(ctx context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error)
	Update(ctx context.Context, block *domain.BlockedTime) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
	Update(ctx context.Context, program *domain.Program) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	GetByClientAndCoachID(ctx context.Context, clientID, coachID primitive.ObjectID) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
}
