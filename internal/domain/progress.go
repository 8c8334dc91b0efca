package domain

import "time"

// OutcomeStatus is the recorded result of one plan item.
type OutcomeStatus string

const (
	StatusCompleted   OutcomeStatus = "completed"
	StatusPartial     OutcomeStatus = "partial"
	StatusIncomplete  OutcomeStatus = "incomplete"
	StatusNotSelected OutcomeStatus = "not_selected"
)

// Valid reports whether s is a known status.
func (s OutcomeStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusIncomplete, StatusNotSelected:
		return true
	}
	return false
}

// Counts reports whether the outcome counts towards completed exercises.
func (s OutcomeStatus) Counts() bool {
	return s == StatusCompleted || s == StatusPartial
}

// ExerciseOutcome is the stored result of one plan item.
type ExerciseOutcome struct {
	Name     string        `bson:"name" json:"name"`
	Status   OutcomeStatus `bson:"status" json:"status"`
	SetsDone int           `bson:"setsDone" json:"setsDone"`
	RepsDone int           `bson:"repsDone" json:"repsDone"`
}

// SessionResult is the outcome of one training day, keyed by "{uid}_{weekStart}_{day}".
// The summary counters are denormalized at write time.
type SessionResult struct {
	ID                  string            `bson:"_id" json:"id"`
	UserID              string            `bson:"uid" json:"uid"`
	WeekStart           string            `bson:"weekStart" json:"weekStart"`
	Day                 string            `bson:"day" json:"day"`
	Timestamp           time.Time         `bson:"timestamp" json:"timestamp"`
	SessionCompleted    bool              `bson:"sessionCompleted" json:"sessionCompleted"`
	CompletedExercises  int               `bson:"completedExercises" json:"completedExercises"`
	PartialExercises    int               `bson:"partialExercises" json:"partialExercises"`
	IncompleteExercises int               `bson:"incompleteExercises" json:"incompleteExercises"`
	TotalExercises      int               `bson:"totalExercises" json:"totalExercises"`
	Exercises           []ExerciseOutcome `bson:"exercises" json:"exercises"`
}

// SessionID builds the document key of a user's session for a week day.
func SessionID(userID, weekStart, day string) string {
	return userID + "_" + weekStart + "_" + day
}

// DoneExercises is the number of outcomes that are completed or partial.
func (r *SessionResult) DoneExercises() int {
	n := 0
	for _, ex := range r.Exercises {
		if ex.Status.Counts() {
			n++
		}
	}
	return n
}

// MilestoneNone is the milestone index before the first session.
const MilestoneNone = -1

// Milestone is a session-count threshold that unlocks an achievement tier.
type Milestone struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Threshold int    `json:"threshold"`
}

// Milestones in ascending threshold order; the index is the milestone index.
var Milestones = []Milestone{
	{ID: "First Session Completed", Title: "First Session Completed!", Threshold: 1},
	{ID: "10 Sessions Completed", Title: "10th Session Completed!", Threshold: 10},
	{ID: "50 Sessions Completed", Title: "50th Session Completed!", Threshold: 50},
}

// AchievementTier is a milestone with its unlock state for a user.
type AchievementTier struct {
	Milestone
	Unlocked bool `json:"unlocked"`
}

// ProgressCounters are derived from the session history on every read.
type ProgressCounters struct {
	WeekStart               string            `json:"weekStart"`
	TotalSessions           int               `json:"totalSessions"`
	TotalCompletedExercises int               `json:"totalCompletedExercises"`
	ThisWeekExercises       int               `json:"thisWeekExercises"`
	MilestoneIndex          int               `json:"milestoneIndex"`
	GoalProgressSessions    int               `json:"goalProgressSessions"`
	Achievements            []AchievementTier `json:"achievements"`
}

// UserStats caches derived values per user. GoalProgressSessions only grows.
type UserStats struct {
	UserID               string    `bson:"_id" json:"uid"`
	GoalProgressSessions int       `bson:"goalProgressSessions" json:"goalProgressSessions"`
	UpdatedAt            time.Time `bson:"updatedAt" json:"updatedAt"`
}
