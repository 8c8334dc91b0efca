// Package memory keeps every collection in process memory. It backs the test suites and the
// "memory" database driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rocksolid/climbing-trainer/internal/domain"
	"rocksolid/climbing-trainer/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds all collections behind one lock. Values are copied in and out.
type Store struct {
	mu            sync.RWMutex
	users         map[primitive.ObjectID]domain.User
	exercises     map[string]domain.Exercise
	profiles      map[string]domain.SurveyProfile
	plans         map[string]domain.Plan
	progress      map[string]domain.SessionResult
	stats         map[string]domain.UserStats
	notifications map[string]domain.Notification
}

func NewStore() *Store {
	return &Store{
		users:         make(map[primitive.ObjectID]domain.User),
		exercises:     make(map[string]domain.Exercise),
		profiles:      make(map[string]domain.SurveyProfile),
		plans:         make(map[string]domain.Plan),
		progress:      make(map[string]domain.SessionResult),
		stats:         make(map[string]domain.UserStats),
		notifications: make(map[string]domain.Notification),
	}
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Exercises() repository.ExerciseRepository         { return exerciseRepo{s} }
func (s *Store) Profiles() repository.ProfileRepository           { return profileRepo{s} }
func (s *Store) Plans() repository.PlanRepository                 { return planRepo{s} }
func (s *Store) Progress() repository.ProgressRepository          { return progressRepo{s} }
func (s *Store) Stats() repository.StatsRepository                { return statsRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

// --- users ---

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return user.ID, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) MarkSurveyCompleted(_ context.Context, id primitive.ObjectID, level string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.SurveyCompleted = true
	u.Level = level
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

// --- exercises ---

type exerciseRepo struct{ s *Store }

func (r exerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Exercise, 0, len(r.s.exercises))
	for _, ex := range r.s.exercises {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r exerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ex, ok := r.s.exercises[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func (r exerciseRepo) Upsert(_ context.Context, exercise *domain.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.s.exercises[exercise.Name]; ok {
		exercise.ID = existing.ID
		exercise.CreatedAt = existing.CreatedAt
		if exercise.Tutorial == "" {
			exercise.Tutorial = existing.Tutorial
		}
		if exercise.TutorialMediaKey == "" {
			exercise.TutorialMediaKey = existing.TutorialMediaKey
		}
	} else {
		exercise.ID = primitive.NewObjectID()
		exercise.CreatedAt = now
	}
	exercise.UpdatedAt = now
	r.s.exercises[exercise.Name] = *exercise
	return nil
}

func (r exerciseRepo) SetTutorial(_ context.Context, name, tutorial string) error {
	return r.update(name, func(ex *domain.Exercise) { ex.Tutorial = tutorial })
}

func (r exerciseRepo) SetTutorialMedia(_ context.Context, name, objectKey string) error {
	return r.update(name, func(ex *domain.Exercise) { ex.TutorialMediaKey = objectKey })
}

func (r exerciseRepo) update(name string, fn func(*domain.Exercise)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ex, ok := r.s.exercises[name]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&ex)
	ex.UpdatedAt = time.Now().UTC()
	r.s.exercises[name] = ex
	return nil
}

// --- survey profiles ---

type profileRepo struct{ s *Store }

func (r profileRepo) Get(_ context.Context, userID string) (*domain.SurveyProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.TrainingGoals = append([]string(nil), p.TrainingGoals...)
	return &p, nil
}

func (r profileRepo) Save(_ context.Context, profile *domain.SurveyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := *profile
	p.TrainingGoals = append([]string(nil), profile.TrainingGoals...)
	r.s.profiles[profile.UserID] = p
	return nil
}

// --- plans ---

type planRepo struct{ s *Store }

func (r planRepo) Get(_ context.Context, userID, weekStart string) (*domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.plans[domain.PlanID(userID, weekStart)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Days = copyDays(p.Days)
	return &p, nil
}

func (r planRepo) Save(_ context.Context, plan *domain.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	plan.ID = domain.PlanID(plan.UserID, plan.WeekStart)
	p := *plan
	p.Days = copyDays(plan.Days)
	r.s.plans[p.ID] = p
	return nil
}

// PlanCount reports how many plans are stored for a user.
func (s *Store) PlanCount(userID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.plans {
		if p.UserID == userID {
			n++
		}
	}
	return n
}

func copyDays(days map[string][]domain.PlanItem) map[string][]domain.PlanItem {
	if days == nil {
		return nil
	}
	out := make(map[string][]domain.PlanItem, len(days))
	for day, items := range days {
		out[day] = append([]domain.PlanItem(nil), items...)
	}
	return out
}

// --- progress ---

type progressRepo struct{ s *Store }

func (r progressRepo) Create(_ context.Context, result *domain.SessionResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	result.ID = domain.SessionID(result.UserID, result.WeekStart, result.Day)
	if _, ok := r.s.progress[result.ID]; ok {
		return repository.ErrDuplicate
	}
	res := *result
	res.Exercises = append([]domain.ExerciseOutcome(nil), result.Exercises...)
	r.s.progress[res.ID] = res
	return nil
}

func (r progressRepo) Exists(_ context.Context, userID, weekStart, day string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.progress[domain.SessionID(userID, weekStart, day)]
	return ok, nil
}

func (r progressRepo) ListByUser(_ context.Context, userID string) ([]domain.SessionResult, error) {
	return r.filter(func(res domain.SessionResult) bool { return res.UserID == userID }), nil
}

func (r progressRepo) ListByWeek(_ context.Context, userID, weekStart string) ([]domain.SessionResult, error) {
	return r.filter(func(res domain.SessionResult) bool {
		return res.UserID == userID && res.WeekStart == weekStart
	}), nil
}

func (r progressRepo) filter(keep func(domain.SessionResult) bool) []domain.SessionResult {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.SessionResult
	for _, res := range r.s.progress {
		if keep(res) {
			res.Exercises = append([]domain.ExerciseOutcome(nil), res.Exercises...)
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID < out[j].ID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// --- stats ---

type statsRepo struct{ s *Store }

func (r statsRepo) Get(_ context.Context, userID string) (*domain.UserStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.stats[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (r statsRepo) RaiseGoalProgress(_ context.Context, userID string, sessions int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := r.s.stats[userID]
	st.UserID = userID
	if sessions > st.GoalProgressSessions {
		st.GoalProgressSessions = sessions
	}
	st.UpdatedAt = time.Now().UTC()
	r.s.stats[userID] = st
	return nil
}

// --- notifications ---

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.notifications[n.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ExistsForAchievement(_ context.Context, userID, achievementID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID && n.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (r notificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, item := range r.s.notifications {
		if item.UserID == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return nil
}
