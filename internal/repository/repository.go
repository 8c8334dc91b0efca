package repository

import (
	"context"

	"rocksolid/climbing-trainer/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	MarkSurveyCompleted(ctx context.Context, id primitive.ObjectID, level string) error
}

// ExerciseRepository is the exercise catalog.
type ExerciseRepository interface {
	// List returns the full catalog.
	List(ctx context.Context) ([]domain.Exercise, error)
	// GetByName matches the name exactly.
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	// Upsert inserts or replaces the entry with the same name.
	Upsert(ctx context.Context, exercise *domain.Exercise) error
	// SetTutorial updates tutorial text on every entry with the given name.
	SetTutorial(ctx context.Context, name, tutorial string) error
	SetTutorialMedia(ctx context.Context, name, objectKey string) error
}

// ProfileRepository stores one survey profile per user.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*domain.SurveyProfile, error)
	// Save overwrites the user's profile.
	Save(ctx context.Context, profile *domain.SurveyProfile) error
}

// PlanRepository stores one plan per (user, week).
type PlanRepository interface {
	Get(ctx context.Context, userID, weekStart string) (*domain.Plan, error)
	// Save overwrites any plan with the same key.
	Save(ctx context.Context, plan *domain.Plan) error
}

// ProgressRepository is the append-only session log.
type ProgressRepository interface {
	// Create fails with ErrDuplicate when a result exists for the same (user, week, day).
	Create(ctx context.Context, result *domain.SessionResult) error
	Exists(ctx context.Context, userID, weekStart, day string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.SessionResult, error)
	ListByWeek(ctx context.Context, userID, weekStart string) ([]domain.SessionResult, error)
}

// StatsRepository caches derived per-user values.
type StatsRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserStats, error)
	// RaiseGoalProgress sets goalProgressSessions to max(current, sessions).
	RaiseGoalProgress(ctx context.Context, userID string, sessions int) error
}

// NotificationRepository stores per-user notification items.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ExistsForAchievement(ctx context.Context, userID, achievementID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
}
