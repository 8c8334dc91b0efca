package mongo

import (
	"context"
	"errors"
	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const statsCollectionName = "user_stats"

type mongoStatsRepository struct {
	collection *mongo.Collection
}

// NewMongoStatsRepository creates a repository for cached per-user values.
func NewMongoStatsRepository(db *mongo.Database) repository.StatsRepository {
	return &mongoStatsRepository{
		collection: db.Collection(statsCollectionName),
	}
}

func (r *mongoStatsRepository) Get(ctx context.Context, userID string) (*domain.UserStats, error) {
	var stats domain.UserStats
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&stats)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// RaiseGoalProgress relies on $max so concurrent writers can never lower the value.
func (r *mongoStatsRepository) RaiseGoalProgress(ctx context.Context, userID string, sessions int) error {
	update := bson.M{
		"$max": bson.M{"goalProgressSessions": sessions},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	_, err := r.collection.UpdateByID(ctx, userID, update, options.Update().SetUpsert(true))
	return err
}
