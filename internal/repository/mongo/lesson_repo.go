package mongo

import (
	"coachdesk/internal/domain"
	"coachdesk/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lessonCollectionName = "lessons"

// mongoLessonRepository implements repository.LessonRepository
type mongoLessonRepository struct {
	collection *mongo.Collection
}

// NewMongoLessonRepository creates a new Lesson repository backed by MongoDB.
func NewMongoLessonRepository(db *mongo.Database) repository.LessonRepository {
	return &mongoLessonRepository{
		collection: db.Collection(lessonCollectionName),
	}
}

// Create inserts a new lesson. The unique (coachId, date) index is the final
// authority on double bookings: the slot list the client saw is a snapshot,
// and a race between two submissions resolves here as ErrConflict.
func (r *mongoLessonRepository) Create(ctx context.Context, lesson *domain.Lesson) (primitive.ObjectID, error) {
	if lesson.CoachID == primitive.NilObjectID || lesson.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("lesson coach ID and client ID are required")
	}
	if lesson.Date.IsZero() {
		return primitive.NilObjectID, errors.New("lesson date is required")
	}

	lesson.ID = primitive.NewObjectID()
	lesson.Date = lesson.Date.UTC() // Lessons are stored as UTC instants
	if lesson.Status == "" {
		lesson.Status = domain.LessonScheduled
	}
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, lesson)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a lesson by its ID.
func (r *mongoLessonRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetByCoachAndRange retrieves a coach's lessons in [from, to).
func (r *mongoLessonRepository) GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.findByRange(ctx, bson.M{"coachId": coachID}, from, to)
}

// GetByCoachesAndRange retrieves lessons for several coaches in [from, to).
// Feeds the organization-wide schedule view.
func (r *mongoLessonRepository) GetByCoachesAndRange(ctx context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	if len(coachIDs) == 0 {
		return []domain.Lesson{}, nil
	}
	return r.findByRange(ctx, bson.M{"coachId": bson.M{"$in": coachIDs}}, from, to)
}

// GetByClientAndRange retrieves a client's lessons in [from, to).
func (r *mongoLessonRepository) GetByClientAndRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.Lesson, error) {
	return r.findByRange(ctx, bson.M{"clientId": clientID}, from, to)
}

func (r *mongoLessonRepository) findByRange(ctx context.Context, filter bson.M, from, to time.Time) ([]domain.Lesson, error) {
	filter["date"] = bson.M{"$gte": from.UTC(), "$lt": to.UTC()}

	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var lessons []domain.Lesson
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return lessons, nil
}

// UpdateStatus transitions a lesson's lifecycle status.
func (r *mongoLessonRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.LessonStatus) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a lesson, scoped to the owning coach.
func (r *mongoLessonRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "coachId": coachID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// EnsureLessonIndexes creates necessary indexes for the lessons collection.
// Call this once during application startup.
func EnsureLessonIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// One lesson per coach per instant. This is the booking-race
			// authority; slot generation is advisory only.
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "recurrenceId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
