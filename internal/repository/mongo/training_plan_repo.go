// internal/repository/mongo/training_plan_repo.go
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

const planCollectionName = "training_programs"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new weekly plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Get retrieves the plan of a user for the week starting at weekStart.
func (r *mongoPlanRepository) Get(ctx context.Context, userID, weekStart string) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, bson.M{"_id": domain.PlanID(userID, weekStart)}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// Save writes the plan as a single document, replacing an earlier plan for the same week.
func (r *mongoPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	if plan.UserID == "" || plan.WeekStart == "" {
		return errors.New("plan requires uid and weekStart")
	}
	plan.ID = domain.PlanID(plan.UserID, plan.WeekStart)

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.ID}, plan, options.Replace().SetUpsert(true))
	return err
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "weekStart", Value: -1}},
			Options: options.Index(),
		},
	})
}
