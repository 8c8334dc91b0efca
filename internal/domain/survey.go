package domain

import "time"

// DefaultGoal replaces an empty goal list.
const DefaultGoal = "General fitness and health"

// SurveyProfile holds a user's onboarding answers. One document per user, latest wins.
type SurveyProfile struct {
	UserID              string    `bson:"_id" json:"uid"`
	ExperienceLevel     string    `bson:"experienceLevel" json:"experienceLevel"`
	Level               string    `bson:"level,omitempty" json:"level,omitempty"`
	TrainingGoals       []string  `bson:"trainingGoals" json:"trainingGoals"`
	TrainingDaysPerWeek string    `bson:"trainingDaysPerWeek,omitempty" json:"trainingDaysPerWeek,omitempty"`
	PreferredStyle      string    `bson:"preferredStyle,omitempty" json:"preferredStyle,omitempty"`
	Injuries            string    `bson:"injuries,omitempty" json:"injuries,omitempty"`
	SurveyType          string    `bson:"surveyType,omitempty" json:"surveyType,omitempty"`
	SubmittedAt         time.Time `bson:"submittedAt" json:"submittedAt"`
}

// Goals returns the training goals, substituting DefaultGoal for an empty list.
func (p *SurveyProfile) Goals() []string {
	if len(p.TrainingGoals) == 0 {
		return []string{DefaultGoal}
	}
	return p.TrainingGoals
}
