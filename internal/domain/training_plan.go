// internal/domain/training_plan.go
package domain

import "time"

// PlanItemType distinguishes the fixed warm-up/cool-down markers from workout references.
type PlanItemType string

const (
	ItemWarmup   PlanItemType = "warmup"
	ItemWorkout  PlanItemType = "workout"
	ItemCooldown PlanItemType = "cooldown"
)

// PlanItem is one scheduled entry of a training day.
type PlanItem struct {
	Name        string       `bson:"name" json:"name"`
	Type        PlanItemType `bson:"type" json:"type"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Sets        Count        `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        Count        `bson:"reps,omitempty" json:"reps,omitempty"`
}

// IsMarker reports whether the item is the warm-up or cool-down marker.
func (i PlanItem) IsMarker() bool {
	return i.Type == ItemWarmup || i.Type == ItemCooldown
}

var (
	WarmupItem   = PlanItem{Name: "Warm-up: Mobility Drills", Type: ItemWarmup}
	CooldownItem = PlanItem{Name: "Cool-down: Stretching", Type: ItemCooldown}
)

// Plan is the weekly training program of one user, keyed by "{uid}_{weekStart}".
// Days maps monday..friday to their items; weekend days are never present.
type Plan struct {
	ID          string                `bson:"_id" json:"id"`
	UserID      string                `bson:"uid" json:"uid"`
	WeekStart   string                `bson:"weekStart" json:"weekStart"`
	GeneratedAt time.Time             `bson:"generatedAt" json:"generatedAt"`
	Days        map[string][]PlanItem `bson:"days" json:"days"`
}

// PlanID builds the document key of a user's plan for a week.
func PlanID(userID, weekStart string) string {
	return userID + "_" + weekStart
}
