package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/logger"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/week"

	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrNoSurveyData          = errors.New("no survey data for user")
	ErrInsufficientExercises = errors.New("not enough exercises for your profile yet")
	ErrPlanNotFound          = errors.New("no training plan for the current week")
	ErrInvalidDay            = errors.New("not a training day of the current plan")
	ErrAlreadyRecorded       = errors.New("session already recorded for this day")
	ErrPreconditionFailed    = errors.New("authenticated user identity is required")
)

// WorkoutsPerDay is the number of catalog exercises drawn for each training day.
const WorkoutsPerDay = 3

// PlanService generates and serves weekly training plans.
type PlanService interface {
	// GenerateWeeklyPlan builds and stores the plan of the current week, replacing any earlier one.
	GenerateWeeklyPlan(ctx context.Context, userID string) (*domain.Plan, error)
	// GetCurrentPlan returns the current week's plan and the days already recorded.
	GetCurrentPlan(ctx context.Context, userID string) (*CurrentPlan, error)
	// GetDayWorkout returns one day of the current plan with exercise tutorials.
	GetDayWorkout(ctx context.Context, userID, day string) (*DayWorkout, error)
}

// CurrentPlan is a plan plus per-day recording state.
type CurrentPlan struct {
	Plan          *domain.Plan    `json:"plan"`
	CompletedDays map[string]bool `json:"completedDays"`
}

// WorkoutItem is a plan item with the catalog tutorial attached.
type WorkoutItem struct {
	domain.PlanItem
	Tutorial string `json:"tutorial,omitempty"`
}

// DayWorkout is what a user executes on one training day.
type DayWorkout struct {
	WeekStart string        `json:"weekStart"`
	Day       string        `json:"day"`
	Items     []WorkoutItem `json:"items"`
}

type planService struct {
	exerciseRepo repository.ExerciseRepository
	profileRepo  repository.ProfileRepository
	planRepo     repository.PlanRepository
	progressRepo repository.ProgressRepository
	now          Clock
	rng          *lockedRand
}

// NewPlanService creates a PlanService. A nil rng is seeded from the clock.
func NewPlanService(
	exerciseRepo repository.ExerciseRepository,
	profileRepo repository.ProfileRepository,
	planRepo repository.PlanRepository,
	progressRepo repository.ProgressRepository,
	now Clock,
	rng *rand.Rand,
) PlanService {
	return &planService{
		exerciseRepo: exerciseRepo,
		profileRepo:  profileRepo,
		planRepo:     planRepo,
		progressRepo: progressRepo,
		now:          now,
		rng:          newLockedRand(rng),
	}
}

func (s *planService) GenerateWeeklyPlan(ctx context.Context, userID string) (*domain.Plan, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	now := s.now()
	weekStart := week.Key(now)

	// Profile and catalog are independent reads; the decision waits for both.
	var (
		profile *domain.SurveyProfile
		catalog []domain.Exercise
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profileRepo.Get(gctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNoSurveyData
			}
			return fmt.Errorf("fetch survey profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := s.exerciseRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("fetch exercise catalog: %w", err)
		}
		catalog = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	level := normalizeLevel(profile.ExperienceLevel)
	tags := goalTags(profile.Goals())
	pool := filterPool(catalog, level, tags)
	if len(pool) < WorkoutsPerDay {
		logger.Info("Plan generation blocked by small pool",
			"uid", userID, "level", level, "tags", tags, "pool", len(pool), "catalog", len(catalog))
		return nil, ErrInsufficientExercises
	}

	plan := &domain.Plan{
		UserID:      userID,
		WeekStart:   weekStart,
		GeneratedAt: now.UTC(),
		Days:        make(map[string][]domain.PlanItem, len(week.TrainingDays)),
	}
	for _, day := range week.TrainingDays {
		items := make([]domain.PlanItem, 0, WorkoutsPerDay+2)
		items = append(items, domain.WarmupItem)
		for _, idx := range s.rng.sample(len(pool), WorkoutsPerDay) {
			ex := pool[idx]
			items = append(items, domain.PlanItem{
				Name:        ex.Name,
				Type:        domain.ItemWorkout,
				Description: ex.Description,
				Sets:        ex.Sets,
				Reps:        ex.Reps,
			})
		}
		items = append(items, domain.CooldownItem)
		plan.Days[day] = items
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	logger.Info("Weekly plan generated", "uid", userID, "weekStart", weekStart, "level", level, "pool", len(pool))
	return plan, nil
}

func (s *planService) GetCurrentPlan(ctx context.Context, userID string) (*CurrentPlan, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	weekStart := week.Key(s.now())

	var (
		plan    *domain.Plan
		results []domain.SessionResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.planRepo.Get(gctx, userID, weekStart)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("fetch plan: %w", err)
		}
		plan = p
		return nil
	})
	g.Go(func() error {
		r, err := s.progressRepo.ListByWeek(gctx, userID, weekStart)
		if err != nil {
			return fmt.Errorf("fetch week progress: %w", err)
		}
		results = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	completed := make(map[string]bool, len(week.TrainingDays))
	for _, day := range week.TrainingDays {
		completed[day] = false
	}
	for _, r := range results {
		completed[r.Day] = true
	}
	return &CurrentPlan{Plan: plan, CompletedDays: completed}, nil
}

func (s *planService) GetDayWorkout(ctx context.Context, userID, day string) (*DayWorkout, error) {
	if userID == "" {
		return nil, ErrPreconditionFailed
	}
	day = week.NormalizeDay(day)
	if !week.IsTrainingDay(day) {
		return nil, ErrInvalidDay
	}
	weekStart := week.Key(s.now())

	plan, err := s.planRepo.Get(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("fetch plan: %w", err)
	}
	items, ok := plan.Days[day]
	if !ok || len(items) == 0 {
		return nil, ErrInvalidDay
	}

	recorded, err := s.progressRepo.Exists(ctx, userID, weekStart, day)
	if err != nil {
		return nil, fmt.Errorf("check recorded session: %w", err)
	}
	if recorded {
		return nil, ErrAlreadyRecorded
	}

	workout := &DayWorkout{
		WeekStart: weekStart,
		Day:       day,
		Items:     make([]WorkoutItem, len(items)),
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		workout.Items[i].PlanItem = item
		if item.IsMarker() {
			continue
		}
		g.Go(func() error {
			ex, err := s.exerciseRepo.GetByName(gctx, item.Name)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Removed from the catalog after the plan was generated.
					return nil
				}
				return fmt.Errorf("fetch tutorial for %q: %w", item.Name, err)
			}
			workout.Items[i].Tutorial = ex.Tutorial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return workout, nil
}
