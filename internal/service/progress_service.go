package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/week"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AchievementTitle is the notification title of every milestone unlock.
const AchievementTitle = "New Achievement Unlocked"

// ProgressService derives dashboard counters from the session history.
type ProgressService interface {
	// ComputeCounters never fails on store errors; it degrades to zero values.
	// The only error is ErrPreconditionFailed for an empty userID.
	ComputeCounters(ctx context.Context, userID string) (*domain.ProgressCounters, error)
}

type progressService struct {
	progressRepo     repository.ProgressRepository
	statsRepo        repository.StatsRepository
	notificationRepo repository.NotificationRepository
	now              Clock

	// Serialises the unlock check-then-write within this process. Other
	// processes can still race; a rare duplicate notification is accepted.
	unlockMu sync.Mutex
}

func NewProgressService(
	progressRepo repository.ProgressRepository,
	statsRepo repository.StatsRepository,
	notificationRepo repository.NotificationRepository,
	now Clock,
) ProgressService {
	return &progressService{
		progressRepo:     progressRepo,
		statsRepo:        statsRepo,
		notificationRepo: notificationRepo,
		now:              now,
	}
}

func (s *progressService) ComputeCounters(ctx context.Context, userID string) (*domain.ProgressCounters, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	weekStart := week.Key(s.now())

	var (
		history []domain.SessionResult
		cached  int
	)
	// Neither read may fail the dashboard, so the goroutines log and return nil.
	var g errgroup.Group
	g.Go(func() error {
		results, err := s.progressRepo.ListByUser(ctx, userID)
		if err != nil {
			logger.Error("Failed to load session history, showing zeros", "uid", userID, "error", err)
			return nil
		}
		history = results
		return nil
	})
	g.Go(func() error {
		stats, err := s.statsRepo.Get(ctx, userID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.Warn("Failed to load goal progress cache", "uid", userID, "error", err)
			}
			return nil
		}
		cached = stats.GoalProgressSessions
		return nil
	})
	_ = g.Wait()

	counters := aggregate(history, weekStart)

	for _, m := range domain.Milestones {
		if counters.TotalSessions == m.Threshold {
			if err := s.unlock(ctx, userID, m); err != nil {
				logger.Error("Failed to record achievement", "uid", userID, "achievement", m.ID, "error", err)
			}
		}
	}

	counters.GoalProgressSessions = cached
	if cached < counters.TotalSessions {
		if err := s.statsRepo.RaiseGoalProgress(ctx, userID, counters.TotalSessions); err != nil {
			logger.Warn("Failed to refresh goal progress cache", "uid", userID, "error", err)
		}
		counters.GoalProgressSessions = counters.TotalSessions
	}

	return counters, nil
}

// aggregate computes the counters that depend only on the history.
func aggregate(history []domain.SessionResult, weekStart string) *domain.ProgressCounters {
	counters := &domain.ProgressCounters{
		WeekStart:      weekStart,
		TotalSessions:  len(history),
		MilestoneIndex: milestoneIndex(len(history)),
	}
	for i := range history {
		done := history[i].DoneExercises()
		counters.TotalCompletedExercises += done
		if history[i].WeekStart == weekStart {
			counters.ThisWeekExercises += done
		}
	}
	counters.Achievements = make([]domain.AchievementTier, len(domain.Milestones))
	for i, m := range domain.Milestones {
		counters.Achievements[i] = domain.AchievementTier{
			Milestone: m,
			Unlocked:  counters.TotalSessions >= m.Threshold,
		}
	}
	return counters
}

// milestoneIndex is the index of the highest milestone reached, or MilestoneNone.
func milestoneIndex(totalSessions int) int {
	idx := domain.MilestoneNone
	for i, m := range domain.Milestones {
		if totalSessions >= m.Threshold {
			idx = i
		}
	}
	return idx
}

// unlock writes the milestone notification unless one already exists.
func (s *progressService) unlock(ctx context.Context, userID string, m domain.Milestone) error {
	s.unlockMu.Lock()
	defer s.unlockMu.Unlock()

	exists, err := s.notificationRepo.ExistsForAchievement(ctx, userID, m.ID)
	if err != nil {
		return fmt.Errorf("check existing achievement: %w", err)
	}
	if exists {
		return nil
	}

	n := &domain.Notification{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         AchievementTitle,
		Message:       fmt.Sprintf("Well done! You've unlocked %q. Keep going to earn more!", m.ID),
		SentAt:        s.now().UTC(),
		AchievementID: m.ID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return err
	}
	logger.Info("Achievement unlocked", "uid", userID, "achievement", m.ID)
	return nil
}
