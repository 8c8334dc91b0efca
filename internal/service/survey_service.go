package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SurveyInput carries onboarding answers.
type SurveyInput struct {
	ExperienceLevel     string
	Level               string
	TrainingGoals       []string
	TrainingDaysPerWeek string
	PreferredStyle      string
	Injuries            string
	SurveyType          string
}

type SurveyService interface {
	// Submit overwrites the user's survey profile.
	Submit(ctx context.Context, userID string, in SurveyInput) (*domain.SurveyProfile, error)
	Get(ctx context.Context, userID string) (*domain.SurveyProfile, error)
}

type surveyService struct {
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
	now         Clock
}

func NewSurveyService(profileRepo repository.ProfileRepository, userRepo repository.UserRepository, now Clock) SurveyService {
	return &surveyService{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		now:         now,
	}
}

func (s *surveyService) Submit(ctx context.Context, userID string, in SurveyInput) (*domain.SurveyProfile, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	if strings.TrimSpace(in.ExperienceLevel) == "" {
		return nil, fmt.Errorf("%w: experience level is required", ErrValidationFailed)
	}

	var goals []string
	for _, g := range in.TrainingGoals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}
	if len(goals) == 0 {
		goals = []string{domain.DefaultGoal}
	}

	profile := &domain.SurveyProfile{
		UserID:              userID,
		ExperienceLevel:     strings.TrimSpace(in.ExperienceLevel),
		Level:               strings.TrimSpace(in.Level),
		TrainingGoals:       goals,
		TrainingDaysPerWeek: in.TrainingDaysPerWeek,
		PreferredStyle:      in.PreferredStyle,
		Injuries:            in.Injuries,
		SurveyType:          in.SurveyType,
		SubmittedAt:         s.now().UTC(),
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save survey profile: %w", err)
	}

	// The account flag is secondary; the profile is already stored.
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		label := profile.Level
		if label == "" {
			label = normalizeLevel(profile.ExperienceLevel)
		}
		if err := s.userRepo.MarkSurveyCompleted(ctx, oid, label); err != nil {
			logger.Warn("Failed to mark survey completed", "uid", userID, "error", err)
		}
	}

	logger.Info("Survey submitted", "uid", userID, "level", normalizeLevel(profile.ExperienceLevel), "goals", len(goals))
	return profile, nil
}

func (s *surveyService) Get(ctx context.Context, userID string) (*domain.SurveyProfile, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	profile, err := s.profileRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSurveyData
		}
		return nil, err
	}
	return profile, nil
}
