package mongo

import (
	"context"
	"errors"
	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const progressCollectionName = "progress"

// mongoProgressRepository implements repository.ProgressRepository
type mongoProgressRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressRepository creates a new session result repository.
func NewMongoProgressRepository(db *mongo.Database) repository.ProgressRepository {
	return &mongoProgressRepository{
		collection: db.Collection(progressCollectionName),
	}
}

// Create inserts the result under its (user, week, day) key. A second insert for the
// same key fails on the _id uniqueness and maps to ErrDuplicate.
func (r *mongoProgressRepository) Create(ctx context.Context, result *domain.SessionResult) error {
	if result.UserID == "" || result.WeekStart == "" || result.Day == "" {
		return errors.New("session result requires uid, weekStart and day")
	}
	result.ID = domain.SessionID(result.UserID, result.WeekStart, result.Day)

	_, err := r.collection.InsertOne(ctx, result)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoProgressRepository) Exists(ctx context.Context, userID, weekStart, day string) (bool, error) {
	filter := bson.M{"uid": userID, "weekStart": weekStart, "day": day}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the full history of a user, oldest first.
func (r *mongoProgressRepository) ListByUser(ctx context.Context, userID string) ([]domain.SessionResult, error) {
	return r.find(ctx, bson.M{"uid": userID})
}

// ListByWeek returns the results of one week.
func (r *mongoProgressRepository) ListByWeek(ctx context.Context, userID, weekStart string) ([]domain.SessionResult, error) {
	return r.find(ctx, bson.M{"uid": userID, "weekStart": weekStart})
}

func (r *mongoProgressRepository) find(ctx context.Context, filter bson.M) ([]domain.SessionResult, error) {
	var results []domain.SessionResult

	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// EnsureProgressIndexes creates necessary indexes. Call during startup.
func EnsureProgressIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "weekStart", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index(),
		},
	})
}
