package domain

import "time"

// Notification is a per-user inbox item. AchievementID is set for milestone unlocks.
type Notification struct {
	ID            string    `bson:"_id" json:"id"`
	UserID        string    `bson:"uid" json:"-"`
	Title         string    `bson:"title" json:"title"`
	Message       string    `bson:"message" json:"message"`
	SentAt        time.Time `bson:"sent_at" json:"sentAt"`
	IsRead        bool      `bson:"is_read" json:"isRead"`
	AchievementID string    `bson:"achievement_id,omitempty" json:"achievementId,omitempty"`
}
