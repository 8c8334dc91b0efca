package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/repository/memory"
)

// Wednesday; the week starts on Monday 2024-06-10.
var testNow = time.Date(2024, 6, 12, 10, 30, 0, 0, time.UTC)

const testWeek = "2024-06-10"

type fixture struct {
	store    *memory.Store
	plans    PlanService
	progress ProgressService
	sessions SessionService
}

func newFixture(t *testing.T, seed int64) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := FixedClock(testNow)
	return &fixture{
		store:    store,
		plans:    NewPlanService(store.Exercises(), store.Profiles(), store.Plans(), store.Progress(), clock, rand.New(rand.NewSource(seed))),
		progress: NewProgressService(store.Progress(), store.Stats(), store.Notifications(), clock),
		sessions: NewSessionService(store.Plans(), store.Progress(), clock),
	}
}

func (f *fixture) seedCatalog(t *testing.T, exercises ...domain.Exercise) {
	t.Helper()
	for i := range exercises {
		if err := f.store.Exercises().Upsert(t.Context(), &exercises[i]); err != nil {
			t.Fatalf("seed exercise: %v", err)
		}
	}
}

func (f *fixture) saveProfile(t *testing.T, userID, level string, goals ...string) {
	t.Helper()
	err := f.store.Profiles().Save(t.Context(), &domain.SurveyProfile{
		UserID:          userID,
		ExperienceLevel: level,
		TrainingGoals:   goals,
	})
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
}

// fingerExercises returns n Intermediate finger exercises.
func fingerExercises(n int) []domain.Exercise {
	out := make([]domain.Exercise, n)
	for i := range out {
		out[i] = domain.Exercise{
			Name:        fmt.Sprintf("Hangboard %02d", i),
			Difficulty:  "Intermediate",
			Category:    "Finger / Grip",
			Description: "Dead hang on a 20mm edge",
			Sets:        "3",
			Reps:        "8",
			Tutorial:    fmt.Sprintf("Tutorial %02d", i),
		}
	}
	return out
}

// otherExercises returns n exercises that never match an Intermediate finger profile.
func otherExercises(n int) []domain.Exercise {
	out := make([]domain.Exercise, n)
	for i := range out {
		ex := domain.Exercise{Name: fmt.Sprintf("Other %02d", i), Sets: "2", Reps: "10"}
		if i%2 == 0 {
			ex.Difficulty, ex.Category = "Advanced", "Finger"
		} else {
			ex.Difficulty, ex.Category = "Intermediate", "Endurance"
		}
		out[i] = ex
	}
	return out
}

// sessionWith builds a result whose first `completed` of `total` exercises are completed.
func sessionWith(userID, weekStart, day string, completed, total int) *domain.SessionResult {
	res := &domain.SessionResult{UserID: userID, WeekStart: weekStart, Day: day, Timestamp: testNow}
	for i := 0; i < total; i++ {
		status := domain.StatusIncomplete
		if i < completed {
			status = domain.StatusCompleted
		}
		res.Exercises = append(res.Exercises, domain.ExerciseOutcome{Name: fmt.Sprintf("ex%d", i), Status: status})
	}
	return res
}

// failingProgressRepo fails every read.
type failingProgressRepo struct {
	repository.ProgressRepository
}

func (failingProgressRepo) ListByUser(context.Context, string) ([]domain.SessionResult, error) {
	return nil, errors.New("connection reset")
}

// countingNotificationRepo counts Create calls on top of a real repository.
type countingNotificationRepo struct {
	repository.NotificationRepository
	creates int
}

func (r *countingNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.creates++
	return r.NotificationRepository.Create(ctx, n)
}
