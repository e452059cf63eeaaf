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

const blockedTimeCollectionName = "blocked_times"

// mongoBlockedTimeRepository implements repository.BlockedTimeRepository
type mongoBlockedTimeRepository struct {
	collection *mongo.Collection
}

// NewMongoBlockedTimeRepository creates a new BlockedTime repository backed by MongoDB.
func NewMongoBlockedTimeRepository(db *mongo.Database) repository.BlockedTimeRepository {
	return &mongoBlockedTimeRepository{
		collection: db.Collection(blockedTimeCollectionName),
	}
}

// Create inserts a new blocked-time record.
func (r *mongoBlockedTimeRepository) Create(ctx context.Context, block *domain.BlockedTime) (primitive.ObjectID, error) {
	if block.CoachID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("blocked time coach ID is required")
	}
	if block.StartTime.IsZero() || block.EndTime.IsZero() {
		return primitive.NilObjectID, errors.New("blocked time start and end are required")
	}
	if !block.EndTime.After(block.StartTime) {
		return primitive.NilObjectID, errors.New("blocked time end must be after start")
	}

	block.ID = primitive.NewObjectID()
	block.StartTime = block.StartTime.UTC()
	block.EndTime = block.EndTime.UTC()
	now := time.Now().UTC()
	block.CreatedAt = now
	block.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a blocked-time record by its ID.
func (r *mongoBlockedTimeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BlockedTime, error) {
	var block domain.BlockedTime
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &block, nil
}

// GetByCoachAndRange retrieves a coach's blocks overlapping [from, to).
func (r *mongoBlockedTimeRepository) GetByCoachAndRange(ctx context.Context, coachID primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error) {
	return r.findByRange(ctx, bson.M{"coachId": coachID}, from, to)
}

// GetByCoachesAndRange retrieves blocks for several coaches overlapping [from, to).
func (r *mongoBlockedTimeRepository) GetByCoachesAndRange(ctx context.Context, coachIDs []primitive.ObjectID, from, to time.Time) ([]domain.BlockedTime, error) {
	if len(coachIDs) == 0 {
		return []domain.BlockedTime{}, nil
	}
	return r.findByRange(ctx, bson.M{"coachId": bson.M{"$in": coachIDs}}, from, to)
}

func (r *mongoBlockedTimeRepository) findByRange(ctx context.Context, filter bson.M, from, to time.Time) ([]domain.BlockedTime, error) {
	// A block overlaps the window when it starts before the window ends and
	// ends after the window starts.
	filter["startTime"] = bson.M{"$lt": to.UTC()}
	filter["endTime"] = bson.M{"$gt": from.UTC()}

	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var blocks []domain.BlockedTime
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return blocks, nil
}

// Update modifies an existing blocked-time record, scoped to its owner.
func (r *mongoBlockedTimeRepository) Update(ctx context.Context, block *domain.BlockedTime) error {
	if block.ID == primitive.NilObjectID {
		return errors.New("blocked time ID is required for update")
	}
	if !block.EndTime.After(block.StartTime) {
		return errors.New("blocked time end must be after start")
	}

	filter := bson.M{"_id": block.ID, "coachId": block.CoachID}
	update := bson.M{
		"$set": bson.M{
			"title":     block.Title,
			"startTime": block.StartTime.UTC(),
			"endTime":   block.EndTime.UTC(),
			"isAllDay":  block.IsAllDay,
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

// Delete removes a blocked-time record, scoped to the owning coach.
func (r *mongoBlockedTimeRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
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

// EnsureBlockedTimeIndexes creates necessary indexes for the blocked_times collection.
// Call this once during application startup.
func EnsureBlockedTimeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Non-fatal; see EnsureUserIndexes.
	}
}
