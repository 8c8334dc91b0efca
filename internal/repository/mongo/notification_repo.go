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

const notificationCollectionName = "notifications"

type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a repository for user notification items.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

func (r *mongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" || n.UserID == "" {
		return errors.New("notification requires id and uid")
	}
	_, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoNotificationRepository) ExistsForAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	filter := bson.M{"uid": userID, "achievement_id": achievementID}
	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns notifications newest first.
func (r *mongoNotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var items []domain.Notification

	findOptions := options.Find().SetSort(bson.D{{Key: "sent_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"uid": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"uid": userID, "is_read": false})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// MarkRead only matches items owned by userID.
func (r *mongoNotificationRepository) MarkRead(ctx context.Context, userID, id string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "uid": userID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureNotificationIndexes creates necessary indexes. Call during startup.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) {
	createIndexes(ctx, collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "sent_at", Value: -1}},
			Options: options.Index(),
		},
		{
			// Pre-write duplicate check for milestone notifications.
			Keys:    bson.D{{Key: "uid", Value: 1}, {Key: "achievement_id", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
}
