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

const surveyCollectionName = "survey_answers"

// mongoProfileRepository stores survey answers keyed by user identity.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new survey profile repository.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(surveyCollectionName),
	}
}

func (r *mongoProfileRepository) Get(ctx context.Context, userID string) (*domain.SurveyProfile, error) {
	var profile domain.SurveyProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save replaces the whole document; earlier answers are not kept.
func (r *mongoProfileRepository) Save(ctx context.Context, profile *domain.SurveyProfile) error {
	if profile.UserID == "" {
		return errors.New("survey profile requires a user id")
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": profile.UserID}, profile, options.Replace().SetUpsert(true))
	return err
}
