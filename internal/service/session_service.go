package service

import (
	"context"
	"errors"
	"fmt"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/week"
)

var ErrInvalidOutcome = errors.New("invalid exercise outcome")

// OutcomeInput is what the user reports for one plan item. SetsDone and RepsDone
// are only read for partial outcomes.
type OutcomeInput struct {
	Name     string               `json:"name"`
	Status   domain.OutcomeStatus `json:"status"`
	SetsDone int                  `json:"setsDone"`
	RepsDone int                  `json:"repsDone"`
}

// SessionService appends day results to the progress log.
type SessionService interface {
	RecordSession(ctx context.Context, userID, day string, outcomes []OutcomeInput) (*domain.SessionResult, error)
}

type sessionService struct {
	planRepo     repository.PlanRepository
	progressRepo repository.ProgressRepository
	now          Clock
}

func NewSessionService(planRepo repository.PlanRepository, progressRepo repository.ProgressRepository, now Clock) SessionService {
	return &sessionService{
		planRepo:     planRepo,
		progressRepo: progressRepo,
		now:          now,
	}
}

// RecordSession stores the result of one training day of the current week. Items without
// a reported outcome are stored as not_selected. A day can only be recorded once.
func (s *sessionService) RecordSession(ctx context.Context, userID, day string, outcomes []OutcomeInput) (*domain.SessionResult, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	day = week.NormalizeDay(day)
	if !week.IsTrainingDay(day) {
		return nil, ErrInvalidDay
	}
	now := s.now()
	weekStart := week.Key(now)

	plan, err := s.planRepo.Get(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	items := plan.Days[day]
	if len(items) == 0 {
		return nil, ErrInvalidDay
	}

	recorded, err := s.progressRepo.Exists(ctx, userID, weekStart, day)
	if err != nil {
		return nil, fmt.Errorf("check recorded session: %w", err)
	}
	if recorded {
		return nil, ErrAlreadyRecorded
	}

	byName, err := indexOutcomes(items, outcomes)
	if err != nil {
		return nil, err
	}

	result := &domain.SessionResult{
		UserID:           userID,
		WeekStart:        weekStart,
		Day:              day,
		Timestamp:        now.UTC(),
		SessionCompleted: true,
		TotalExercises:   len(items),
		Exercises:        make([]domain.ExerciseOutcome, 0, len(items)),
	}
	for _, item := range items {
		in, ok := byName[item.Name]
		status := domain.StatusNotSelected
		if ok {
			status = in.Status
		}
		sets, reps := doneCounts(item, status, in)
		result.Exercises = append(result.Exercises, domain.ExerciseOutcome{
			Name:     item.Name,
			Status:   status,
			SetsDone: sets,
			RepsDone: reps,
		})

		switch status {
		case domain.StatusCompleted:
			result.CompletedExercises++
		case domain.StatusPartial:
			result.PartialExercises++
		case domain.StatusIncomplete:
			result.IncompleteExercises++
		default:
			result.SessionCompleted = false
		}
	}

	if err := s.progressRepo.Create(ctx, result); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyRecorded
		}
		return nil, fmt.Errorf("save session result: %w", err)
	}

	logger.Info("Session recorded", "uid", userID, "weekStart", weekStart, "day", day,
		"completed", result.CompletedExercises, "partial", result.PartialExercises, "total", result.TotalExercises)
	return result, nil
}

// indexOutcomes validates the reported outcomes against the day's items.
func indexOutcomes(items []domain.PlanItem, outcomes []OutcomeInput) (map[string]OutcomeInput, error) {
	planned := make(map[string]domain.PlanItem, len(items))
	for _, item := range items {
		planned[item.Name] = item
	}

	byName := make(map[string]OutcomeInput, len(outcomes))
	for _, in := range outcomes {
		item, ok := planned[in.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not part of this day", ErrInvalidOutcome, in.Name)
		}
		if !in.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidOutcome, in.Status)
		}
		if _, dup := byName[in.Name]; dup {
			return nil, fmt.Errorf("%w: %q reported twice", ErrInvalidOutcome, in.Name)
		}
		if in.Status == domain.StatusPartial {
			if item.IsMarker() {
				return nil, fmt.Errorf("%w: %q cannot be partial", ErrInvalidOutcome, in.Name)
			}
			if in.SetsDone < 0 || in.RepsDone < 0 {
				return nil, fmt.Errorf("%w: negative counts for %q", ErrInvalidOutcome, in.Name)
			}
		}
		byName[in.Name] = in
	}
	return byName, nil
}

// doneCounts derives setsDone/repsDone. Markers count 1/1 when completed; completed workouts
// copy the numeric targets; partial workouts keep the reported values.
func doneCounts(item domain.PlanItem, status domain.OutcomeStatus, in OutcomeInput) (int, int) {
	switch {
	case item.IsMarker():
		if status == domain.StatusCompleted {
			return 1, 1
		}
		return 0, 0
	case status == domain.StatusCompleted:
		return item.Sets.Int(), item.Reps.Int()
	case status == domain.StatusPartial:
		return in.SetsDone, in.RepsDone
	default:
		return 0, 0
	}
}
