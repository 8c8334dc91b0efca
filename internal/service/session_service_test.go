package service

import (
	"errors"
	"testing"

	"rocksolid/climbing-trainer/internal/domain"

	"github.com/google/go-cmp/cmp"
)

// planFor stores a fixed Monday plan for u1 and returns its workout names.
func planFor(t *testing.T, f *fixture) []string {
	t.Helper()
	items := []domain.PlanItem{
		domain.WarmupItem,
		{Name: "Hangboard", Type: domain.ItemWorkout, Sets: "3", Reps: "8"},
		{Name: "Pull-ups", Type: domain.ItemWorkout, Sets: "4", Reps: "6"},
		{Name: "Lock-offs", Type: domain.ItemWorkout, Sets: "3", Reps: "8-10"},
		domain.CooldownItem,
	}
	plan := &domain.Plan{
		UserID:    "u1",
		WeekStart: testWeek,
		Days:      map[string][]domain.PlanItem{"monday": items, "tuesday": items},
	}
	if err := f.store.Plans().Save(t.Context(), plan); err != nil {
		t.Fatalf("save plan: %v", err)
	}
	return []string{"Hangboard", "Pull-ups", "Lock-offs"}
}

func TestRecordSession(t *testing.T) {
	f := newFixture(t, 1)
	planFor(t, f)

	got, err := f.sessions.RecordSession(t.Context(), "u1", "Monday", []OutcomeInput{
		{Name: domain.WarmupItem.Name, Status: domain.StatusCompleted},
		{Name: "Hangboard", Status: domain.StatusCompleted},
		{Name: "Pull-ups", Status: domain.StatusPartial, SetsDone: 2, RepsDone: 5},
		{Name: "Lock-offs", Status: domain.StatusIncomplete, SetsDone: 9, RepsDone: 9},
	})
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	want := &domain.SessionResult{
		ID:                  "u1_2024-06-10_monday",
		UserID:              "u1",
		WeekStart:           testWeek,
		Day:                 "monday",
		Timestamp:           testNow,
		SessionCompleted:    false,
		CompletedExercises:  2,
		PartialExercises:    1,
		IncompleteExercises: 1,
		TotalExercises:      5,
		Exercises: []domain.ExerciseOutcome{
			{Name: domain.WarmupItem.Name, Status: domain.StatusCompleted, SetsDone: 1, RepsDone: 1},
			{Name: "Hangboard", Status: domain.StatusCompleted, SetsDone: 3, RepsDone: 8},
			{Name: "Pull-ups", Status: domain.StatusPartial, SetsDone: 2, RepsDone: 5},
			{Name: "Lock-offs", Status: domain.StatusIncomplete},
			{Name: domain.CooldownItem.Name, Status: domain.StatusNotSelected},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.sessions.RecordSession(t.Context(), "u1", "monday", nil); !errors.Is(err, ErrAlreadyRecorded) {
		t.Errorf("second record err = %v, want ErrAlreadyRecorded", err)
	}
}

func TestRecordSessionCompletedFlag(t *testing.T) {
	f := newFixture(t, 1)
	names := planFor(t, f)

	outcomes := []OutcomeInput{
		{Name: domain.WarmupItem.Name, Status: domain.StatusIncomplete},
		{Name: domain.CooldownItem.Name, Status: domain.StatusCompleted},
	}
	for _, n := range names {
		outcomes = append(outcomes, OutcomeInput{Name: n, Status: domain.StatusCompleted})
	}

	got, err := f.sessions.RecordSession(t.Context(), "u1", "tuesday", outcomes)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if !got.SessionCompleted {
		t.Error("SessionCompleted = false with every item reported")
	}
	// "8-10" is not a plain integer.
	if lockOffs := got.Exercises[3]; lockOffs.SetsDone != 3 || lockOffs.RepsDone != 0 {
		t.Errorf("Lock-offs done = %d/%d, want 3/0", lockOffs.SetsDone, lockOffs.RepsDone)
	}
	if got.DoneExercises() != 4 {
		t.Errorf("DoneExercises = %d, want 4", got.DoneExercises())
	}
}

func TestRecordSessionRejects(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		day      string
		outcomes []OutcomeInput
		wantErr  error
	}{
		{"no user", "", "monday", nil, ErrPreconditionFailed},
		{"weekend", "u1", "saturday", nil, ErrInvalidDay},
		{"day missing from plan", "u1", "friday", nil, ErrInvalidDay},
		{"no plan", "u2", "monday", nil, ErrPlanNotFound},
		{
			"partial warm-up", "u1", "monday",
			[]OutcomeInput{{Name: domain.WarmupItem.Name, Status: domain.StatusPartial}},
			ErrInvalidOutcome,
		},
		{
			"unknown exercise", "u1", "monday",
			[]OutcomeInput{{Name: "Campus board", Status: domain.StatusCompleted}},
			ErrInvalidOutcome,
		},
		{
			"unknown status", "u1", "monday",
			[]OutcomeInput{{Name: "Hangboard", Status: "done"}},
			ErrInvalidOutcome,
		},
		{
			"negative partial", "u1", "monday",
			[]OutcomeInput{{Name: "Hangboard", Status: domain.StatusPartial, SetsDone: -1}},
			ErrInvalidOutcome,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			planFor(t, f)

			_, err := f.sessions.RecordSession(t.Context(), tt.userID, tt.day, tt.outcomes)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if exists, _ := f.store.Progress().Exists(t.Context(), tt.userID, testWeek, tt.day); exists {
				t.Error("rejected session was stored")
			}
		})
	}
}

func TestRecordedSessionFeedsCounters(t *testing.T) {
	f := newFixture(t, 1)
	planFor(t, f)

	_, err := f.sessions.RecordSession(t.Context(), "u1", "monday", []OutcomeInput{
		{Name: "Hangboard", Status: domain.StatusCompleted},
		{Name: "Pull-ups", Status: domain.StatusPartial, SetsDone: 1, RepsDone: 3},
	})
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	counters, err := f.progress.ComputeCounters(t.Context(), "u1")
	if err != nil {
		t.Fatalf("ComputeCounters: %v", err)
	}
	if counters.TotalSessions != 1 || counters.TotalCompletedExercises != 2 || counters.ThisWeekExercises != 2 {
		t.Errorf("unexpected counters %+v", counters)
	}
	if !counters.Achievements[0].Unlocked || counters.Achievements[1].Unlocked {
		t.Errorf("unexpected achievements %+v", counters.Achievements)
	}
	if n, _ := f.store.Notifications().CountUnread(t.Context(), "u1"); n != 1 {
		t.Errorf("unread notifications = %d, want 1", n)
	}
}
