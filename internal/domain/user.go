package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleClimber Role = "climber"
	RoleAdmin   Role = "admin"
)

// User is an account. The hex ObjectID is the user identity used as "uid" everywhere else.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"passwordHash" json:"-"`
	Role            Role               `bson:"role" json:"role"`
	Level           string             `bson:"level,omitempty" json:"level,omitempty"`
	SurveyCompleted bool               `bson:"surveyCompleted" json:"surveyCompleted"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UID returns the user identity string.
func (u *User) UID() string {
	return u.ID.Hex()
}
