package mongo

import (
	"context"
	"errors"
	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// List scans the whole catalog, sorted by name.
func (r *mongoExerciseRepository) List(ctx context.Context) ([]domain.Exercise, error) {
	var exercises []domain.Exercise

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByName returns the first entry whose name matches exactly.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// Upsert inserts the exercise or replaces the catalog fields of the entry with the same name.
// Tutorial fields are only overwritten when non-empty.
func (r *mongoExerciseRepository) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" {
		return errors.New("exercise name is required")
	}
	now := time.Now().UTC()
	set := bson.M{
		"difficulty":  exercise.Difficulty,
		"category":    exercise.Category,
		"description": exercise.Description,
		"sets":        exercise.Sets,
		"reps":        exercise.Reps,
		"updatedAt":   now,
	}
	if exercise.Tutorial != "" {
		set["tutorial"] = exercise.Tutorial
	}
	if exercise.TutorialMediaKey != "" {
		set["tutorialMediaKey"] = exercise.TutorialMediaKey
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"name": exercise.Name}, update, options.Update().SetUpsert(true))
	return err
}

// SetTutorial updates every entry carrying the name.
func (r *mongoExerciseRepository) SetTutorial(ctx context.Context, name, tutorial string) error {
	return r.setField(ctx, name, "tutorial", tutorial)
}

// SetTutorialMedia stores the object key of the tutorial media.
func (r *mongoExerciseRepository) SetTutorialMedia(ctx context.Context, name, objectKey string) error {
	return r.setField(ctx, name, "tutorialMediaKey", objectKey)
}

func (r *mongoExerciseRepository) setField(ctx context.Context, name, field, value string) error {
	update := bson.M{"$set": bson.M{field: value, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateMany(ctx, bson.M{"name": name}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			// Tutorial lookups and upserts match on the exact name.
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}
