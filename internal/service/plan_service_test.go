package service

import (
	"errors"
	"math/rand"
	"testing"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/week"

	"github.com/google/go-cmp/cmp"
)

func TestGenerateWeeklyPlanShape(t *testing.T) {
	f := newFixture(t, 1)
	f.seedCatalog(t, append(fingerExercises(4), otherExercises(10)...)...)
	f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")

	plan, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1")
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}

	if plan.ID != "u1_"+testWeek || plan.WeekStart != testWeek {
		t.Errorf("plan key = %q week = %q", plan.ID, plan.WeekStart)
	}
	if len(plan.Days) != 5 {
		t.Fatalf("got %d days, want 5", len(plan.Days))
	}
	for _, weekend := range []string{week.Saturday, week.Sunday} {
		if _, ok := plan.Days[weekend]; ok {
			t.Errorf("%s must not be populated", weekend)
		}
	}

	pool := make(map[string]bool)
	for _, ex := range fingerExercises(4) {
		pool[ex.Name] = true
	}
	for _, day := range week.TrainingDays {
		items := plan.Days[day]
		if len(items) != 5 {
			t.Fatalf("%s has %d items, want 5", day, len(items))
		}
		if diff := cmp.Diff(domain.WarmupItem, items[0]); diff != "" {
			t.Errorf("%s first item (-want +got):\n%s", day, diff)
		}
		if diff := cmp.Diff(domain.CooldownItem, items[4]); diff != "" {
			t.Errorf("%s last item (-want +got):\n%s", day, diff)
		}
		seen := make(map[string]bool)
		for _, item := range items[1:4] {
			if item.Type != domain.ItemWorkout {
				t.Errorf("%s: item %q has type %q", day, item.Name, item.Type)
			}
			if !pool[item.Name] {
				t.Errorf("%s: %q is not in the matching pool", day, item.Name)
			}
			if seen[item.Name] {
				t.Errorf("%s: %q drawn twice", day, item.Name)
			}
			seen[item.Name] = true
			if item.Sets != "3" || item.Reps != "8" || item.Description == "" {
				t.Errorf("%s: catalog fields not copied: %+v", day, item)
			}
		}
	}

	stored, err := f.store.Plans().Get(t.Context(), "u1", testWeek)
	if err != nil {
		t.Fatalf("stored plan: %v", err)
	}
	if diff := cmp.Diff(plan.Days, stored.Days); diff != "" {
		t.Errorf("stored plan differs (-returned +stored):\n%s", diff)
	}
}

func TestGenerateWeeklyPlanPoolBoundary(t *testing.T) {
	tests := []struct {
		name     string
		matching int
		wantErr  error
	}{
		{"two matching", 2, ErrInsufficientExercises},
		{"three matching", 3, nil},
		{"empty catalog", 0, ErrInsufficientExercises},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			f.seedCatalog(t, append(fingerExercises(tt.matching), otherExercises(10)...)...)
			f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")

			_, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			wantPlans := 1
			if tt.wantErr != nil {
				wantPlans = 0
			}
			if n := f.store.PlanCount("u1"); n != wantPlans {
				t.Errorf("stored plans = %d, want %d", n, wantPlans)
			}
		})
	}
}

func TestGenerateWeeklyPlanWithoutSurvey(t *testing.T) {
	f := newFixture(t, 1)
	f.seedCatalog(t, fingerExercises(5)...)

	if _, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1"); !errors.Is(err, ErrNoSurveyData) {
		t.Fatalf("err = %v, want ErrNoSurveyData", err)
	}
	if _, err := f.plans.GenerateWeeklyPlan(t.Context(), ""); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("err = %v, want ErrPreconditionFailed", err)
	}
}

func TestGenerateWeeklyPlanOverwrites(t *testing.T) {
	f := newFixture(t, 1)
	f.seedCatalog(t, fingerExercises(6)...)
	f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")

	if _, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1"); err != nil {
		t.Fatalf("first generation: %v", err)
	}
	second, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1")
	if err != nil {
		t.Fatalf("second generation: %v", err)
	}

	if n := f.store.PlanCount("u1"); n != 1 {
		t.Fatalf("stored plans = %d, want 1", n)
	}
	stored, _ := f.store.Plans().Get(t.Context(), "u1", testWeek)
	if diff := cmp.Diff(second.Days, stored.Days); diff != "" {
		t.Errorf("stored plan is not the latest (-want +got):\n%s", diff)
	}
}

func TestGenerateWeeklyPlanEmptyGoalsUseDefault(t *testing.T) {
	catalog := []domain.Exercise{
		{Name: "Plank", Difficulty: "Beginner", Category: "Core", Sets: "3", Reps: "30"},
		{Name: "Easy laps", Difficulty: "Beginner", Category: "Endurance", Sets: "1", Reps: "4"},
		{Name: "Bird dog", Difficulty: "Beginner", Category: "Stability", Sets: "2", Reps: "10"},
		{Name: "Dead bug", Difficulty: "Beginner", Category: "core stability", Sets: "2", Reps: "12"},
		{Name: "Campus ladder", Difficulty: "Beginner", Category: "Power", Sets: "3", Reps: "5"},
	}

	generate := func(goals ...string) map[string][]domain.PlanItem {
		f := newFixture(t, 42)
		f.seedCatalog(t, catalog...)
		f.saveProfile(t, "u1", "beginner", goals...)
		plan, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1")
		if err != nil {
			t.Fatalf("GenerateWeeklyPlan(%v): %v", goals, err)
		}
		return plan.Days
	}

	empty := generate()
	explicit := generate(domain.DefaultGoal)
	if diff := cmp.Diff(explicit, empty); diff != "" {
		t.Errorf("empty goals differ from default goal (-default +empty):\n%s", diff)
	}
	for day, items := range empty {
		for _, item := range items {
			if item.Name == "Campus ladder" {
				t.Errorf("%s: power exercise drawn for default goal", day)
			}
		}
	}
}

func TestGenerateWeeklyPlanIsDeterministicForSeed(t *testing.T) {
	f := newFixture(t, 3)
	f.seedCatalog(t, fingerExercises(12)...)
	f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")

	plan, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1")
	if err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}

	// Same seed, same draws.
	r := rand.New(rand.NewSource(3))
	pool := fingerExercises(12)
	for _, day := range week.TrainingDays {
		for i, idx := range r.Perm(len(pool))[:WorkoutsPerDay] {
			if got := plan.Days[day][i+1].Name; got != pool[idx].Name {
				t.Errorf("%s slot %d = %q, want %q", day, i, got, pool[idx].Name)
			}
		}
	}
}

func TestGetCurrentPlan(t *testing.T) {
	f := newFixture(t, 1)

	if _, err := f.plans.GetCurrentPlan(t.Context(), "u1"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}

	f.seedCatalog(t, fingerExercises(3)...)
	f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")
	if _, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1"); err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}
	if err := f.store.Progress().Create(t.Context(), sessionWith("u1", testWeek, week.Tuesday, 3, 5)); err != nil {
		t.Fatalf("record: %v", err)
	}

	current, err := f.plans.GetCurrentPlan(t.Context(), "u1")
	if err != nil {
		t.Fatalf("GetCurrentPlan: %v", err)
	}
	want := map[string]bool{"monday": false, "tuesday": true, "wednesday": false, "thursday": false, "friday": false}
	if diff := cmp.Diff(want, current.CompletedDays); diff != "" {
		t.Errorf("CompletedDays mismatch (-want +got):\n%s", diff)
	}
}

func TestGetDayWorkout(t *testing.T) {
	f := newFixture(t, 1)
	f.seedCatalog(t, fingerExercises(3)...)
	f.saveProfile(t, "u1", "Intermediate", "Increase finger strength")

	if _, err := f.plans.GetDayWorkout(t.Context(), "u1", "monday"); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
	if _, err := f.plans.GenerateWeeklyPlan(t.Context(), "u1"); err != nil {
		t.Fatalf("GenerateWeeklyPlan: %v", err)
	}

	workout, err := f.plans.GetDayWorkout(t.Context(), "u1", " Monday ")
	if err != nil {
		t.Fatalf("GetDayWorkout: %v", err)
	}
	if workout.Day != "monday" || len(workout.Items) != 5 {
		t.Fatalf("unexpected workout %+v", workout)
	}
	if workout.Items[0].Tutorial != "" || workout.Items[4].Tutorial != "" {
		t.Error("markers must not carry tutorials")
	}
	for _, item := range workout.Items[1:4] {
		want := "Tutorial " + item.Name[len(item.Name)-2:]
		if item.Tutorial != want {
			t.Errorf("%s tutorial = %q, want %q", item.Name, item.Tutorial, want)
		}
	}

	if _, err := f.plans.GetDayWorkout(t.Context(), "u1", "saturday"); !errors.Is(err, ErrInvalidDay) {
		t.Errorf("saturday err = %v, want ErrInvalidDay", err)
	}

	if err := f.store.Progress().Create(t.Context(), sessionWith("u1", testWeek, week.Monday, 5, 5)); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := f.plans.GetDayWorkout(t.Context(), "u1", "monday"); !errors.Is(err, ErrAlreadyRecorded) {
		t.Errorf("recorded day err = %v, want ErrAlreadyRecorded", err)
	}
}
