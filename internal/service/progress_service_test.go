package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"
	"rocksolid/climbing-trainer/internal/repository/memory"
	"rocksolid/climbing-trainer/internal/week"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestComputeCountersWithoutHistory(t *testing.T) {
	f := newFixture(t, 1)

	got, err := f.progress.ComputeCounters(t.Context(), "u1")
	if err != nil {
		t.Fatalf("ComputeCounters: %v", err)
	}
	want := &domain.ProgressCounters{
		WeekStart:      testWeek,
		MilestoneIndex: domain.MilestoneNone,
		Achievements: []domain.AchievementTier{
			{Milestone: domain.Milestones[0]},
			{Milestone: domain.Milestones[1]},
			{Milestone: domain.Milestones[2]},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("counters mismatch (-want +got):\n%s", diff)
	}

	if n, _ := f.store.Notifications().CountUnread(t.Context(), "u1"); n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
	if _, err := f.store.Stats().Get(t.Context(), "u1"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("stats written for empty history: %v", err)
	}
}

func TestComputeCountersRequiresUser(t *testing.T) {
	f := newFixture(t, 1)
	if _, err := f.progress.ComputeCounters(t.Context(), ""); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestComputeCountersSums(t *testing.T) {
	f := newFixture(t, 1)
	ctx := t.Context()

	sessions := []*domain.SessionResult{
		sessionWith("u1", testWeek, "monday", 2, 3),
		sessionWith("u1", testWeek, "tuesday", 3, 3),
		sessionWith("u1", "2024-06-03", "friday", 1, 3),
		sessionWith("u2", testWeek, "monday", 3, 3),
	}
	// A partial outcome counts as done.
	sessions[2].Exercises[1].Status = domain.StatusPartial
	sessions[2].Exercises[2].Status = domain.StatusNotSelected
	for _, s := range sessions {
		if err := f.store.Progress().Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := f.progress.ComputeCounters(ctx, "u1")
	if err != nil {
		t.Fatalf("ComputeCounters: %v", err)
	}
	if got.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", got.TotalSessions)
	}
	if got.TotalCompletedExercises != 7 {
		t.Errorf("TotalCompletedExercises = %d, want 7", got.TotalCompletedExercises)
	}
	if got.ThisWeekExercises != 5 {
		t.Errorf("ThisWeekExercises = %d, want 5", got.ThisWeekExercises)
	}
	if got.MilestoneIndex != 0 {
		t.Errorf("MilestoneIndex = %d, want 0", got.MilestoneIndex)
	}
	if got.GoalProgressSessions != 3 {
		t.Errorf("GoalProgressSessions = %d, want 3", got.GoalProgressSessions)
	}
}

func TestComputeCountersExampleScenario(t *testing.T) {
	f := newFixture(t, 1)
	for _, s := range []*domain.SessionResult{
		sessionWith("u1", testWeek, "monday", 2, 3),
		sessionWith("u1", testWeek, "tuesday", 3, 3),
		sessionWith("u1", testWeek, "wednesday", 1, 3),
	} {
		if err := f.store.Progress().Create(t.Context(), s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := f.progress.ComputeCounters(t.Context(), "u1")
	if err != nil {
		t.Fatalf("ComputeCounters: %v", err)
	}
	if got.TotalCompletedExercises != 6 || got.TotalSessions != 3 {
		t.Errorf("got completed=%d sessions=%d, want 6 and 3", got.TotalCompletedExercises, got.TotalSessions)
	}
}

func TestMilestoneIndex(t *testing.T) {
	tests := []struct {
		sessions int
		want     int
	}{
		{0, domain.MilestoneNone},
		{1, 0},
		{9, 0},
		{10, 1},
		{49, 1},
		{50, 2},
		{120, 2},
	}
	for _, tt := range tests {
		if got := milestoneIndex(tt.sessions); got != tt.want {
			t.Errorf("milestoneIndex(%d) = %d, want %d", tt.sessions, got, tt.want)
		}
	}
}

func TestFirstSessionUnlocksOnce(t *testing.T) {
	store := memory.NewStore()
	notifications := &countingNotificationRepo{NotificationRepository: store.Notifications()}
	svc := NewProgressService(store.Progress(), store.Stats(), notifications, FixedClock(testNow))

	if err := store.Progress().Create(t.Context(), sessionWith("u1", testWeek, "monday", 3, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}

	for range 2 {
		if _, err := svc.ComputeCounters(t.Context(), "u1"); err != nil {
			t.Fatalf("ComputeCounters: %v", err)
		}
	}

	if notifications.creates != 1 {
		t.Fatalf("notification writes = %d, want 1", notifications.creates)
	}
	items, _ := store.Notifications().ListByUser(t.Context(), "u1")
	want := []domain.Notification{{
		UserID:        "u1",
		Title:         "New Achievement Unlocked",
		Message:       `Well done! You've unlocked "First Session Completed". Keep going to earn more!`,
		SentAt:        testNow,
		AchievementID: "First Session Completed",
	}}
	if diff := cmp.Diff(want, items, cmpopts.IgnoreFields(domain.Notification{}, "ID")); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}

// seedWeeklySessions stores one monday session per week, going back from the current week.
func seedWeeklySessions(t *testing.T, store *memory.Store, userID string, from, to int) {
	t.Helper()
	for i := from; i < to; i++ {
		weekStart := week.Key(testNow.AddDate(0, 0, -7*i))
		if err := store.Progress().Create(t.Context(), sessionWith(userID, weekStart, "monday", 1, 1)); err != nil {
			t.Fatalf("create session %d: %v", i, err)
		}
	}
}

func TestMilestoneThresholdsUnlockOnce(t *testing.T) {
	tests := []struct {
		sessions    int
		achievement string
	}{
		{sessions: 10, achievement: "10 Sessions Completed"},
		{sessions: 50, achievement: "50 Sessions Completed"},
	}
	for _, tt := range tests {
		t.Run(tt.achievement, func(t *testing.T) {
			store := memory.NewStore()
			notifications := &countingNotificationRepo{NotificationRepository: store.Notifications()}
			svc := NewProgressService(store.Progress(), store.Stats(), notifications, FixedClock(testNow))

			seedWeeklySessions(t, store, "u1", 0, tt.sessions)
			for range 2 {
				if _, err := svc.ComputeCounters(t.Context(), "u1"); err != nil {
					t.Fatalf("ComputeCounters: %v", err)
				}
			}

			items, _ := store.Notifications().ListByUser(t.Context(), "u1")
			want := []domain.Notification{{
				UserID:        "u1",
				Title:         AchievementTitle,
				Message:       fmt.Sprintf("Well done! You've unlocked %q. Keep going to earn more!", tt.achievement),
				SentAt:        testNow,
				AchievementID: tt.achievement,
			}}
			if diff := cmp.Diff(want, items, cmpopts.IgnoreFields(domain.Notification{}, "ID")); diff != "" {
				t.Errorf("notifications mismatch (-want +got):\n%s", diff)
			}

			// One session past the threshold unlocks nothing new.
			seedWeeklySessions(t, store, "u1", tt.sessions, tt.sessions+1)
			counters, err := svc.ComputeCounters(t.Context(), "u1")
			if err != nil {
				t.Fatalf("ComputeCounters: %v", err)
			}
			if counters.TotalSessions != tt.sessions+1 {
				t.Errorf("TotalSessions = %d, want %d", counters.TotalSessions, tt.sessions+1)
			}
			if notifications.creates != 1 {
				t.Errorf("notification writes = %d, want 1", notifications.creates)
			}
		})
	}
}

func TestConcurrentEvaluationUnlocksOnce(t *testing.T) {
	store := memory.NewStore()
	svc := NewProgressService(store.Progress(), store.Stats(), store.Notifications(), FixedClock(testNow))
	if err := store.Progress().Create(t.Context(), sessionWith("u1", testWeek, "monday", 1, 5)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ComputeCounters(t.Context(), "u1")
		}()
	}
	wg.Wait()

	items, _ := store.Notifications().ListByUser(t.Context(), "u1")
	if len(items) != 1 {
		t.Errorf("got %d notifications, want 1", len(items))
	}
}

func TestNoUnlockBetweenThresholds(t *testing.T) {
	f := newFixture(t, 1)
	days := []string{"monday", "tuesday"}
	for _, day := range days {
		if err := f.store.Progress().Create(t.Context(), sessionWith("u1", testWeek, day, 1, 1)); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if _, err := f.progress.ComputeCounters(t.Context(), "u1"); err != nil {
		t.Fatalf("ComputeCounters: %v", err)
	}
	items, _ := f.store.Notifications().ListByUser(t.Context(), "u1")
	if len(items) != 0 {
		t.Errorf("got %d notifications at 2 sessions, want 0", len(items))
	}
}

func TestGoalProgressCacheNeverDecreases(t *testing.T) {
	tests := []struct {
		name      string
		cached    int
		sessions  int
		wantValue int
	}{
		{"stale cache is raised", 1, 3, 3},
		{"fresher cache is kept", 5, 3, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			if err := f.store.Stats().RaiseGoalProgress(t.Context(), "u1", tt.cached); err != nil {
				t.Fatalf("seed cache: %v", err)
			}
			for i, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"}[:tt.sessions] {
				if err := f.store.Progress().Create(t.Context(), sessionWith("u1", testWeek, day, i, 3)); err != nil {
					t.Fatalf("create: %v", err)
				}
			}

			got, err := f.progress.ComputeCounters(t.Context(), "u1")
			if err != nil {
				t.Fatalf("ComputeCounters: %v", err)
			}
			if got.GoalProgressSessions != tt.wantValue {
				t.Errorf("GoalProgressSessions = %d, want %d", got.GoalProgressSessions, tt.wantValue)
			}
			stats, _ := f.store.Stats().Get(t.Context(), "u1")
			if stats.GoalProgressSessions != tt.wantValue {
				t.Errorf("cached value = %d, want %d", stats.GoalProgressSessions, tt.wantValue)
			}
		})
	}
}

func TestComputeCountersDegradesOnStoreError(t *testing.T) {
	store := memory.NewStore()
	svc := NewProgressService(failingProgressRepo{store.Progress()}, store.Stats(), store.Notifications(), FixedClock(testNow))

	got, err := svc.ComputeCounters(t.Context(), "u1")
	if err != nil {
		t.Fatalf("ComputeCounters returned %v, want zero counters", err)
	}
	if got.TotalSessions != 0 || got.TotalCompletedExercises != 0 || got.MilestoneIndex != domain.MilestoneNone {
		t.Errorf("unexpected counters %+v", got)
	}
}
