// Package week derives the Monday-anchored week identifier used to key plans and progress.
package week

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout of a week key.
const DateFormat = "2006-01-02"

// Day names used as plan keys.
const (
	Monday    = "monday"
	Tuesday   = "tuesday"
	Wednesday = "wednesday"
	Thursday  = "thursday"
	Friday    = "friday"
	Saturday  = "saturday"
	Sunday    = "sunday"
)

// TrainingDays are the populated days of a weekly plan, in order.
var TrainingDays = []string{Monday, Tuesday, Wednesday, Thursday, Friday}

// Start returns midnight of the Monday of the week containing t, in t's location.
// Sunday belongs to the week that started six days earlier.
func Start(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// Key formats the week key (Monday, yyyy-MM-dd) for t.
func Key(t time.Time) string {
	return Start(t).Format(DateFormat)
}

// Parse validates a week key and returns its Monday.
func Parse(key string) (time.Time, error) {
	t, err := time.Parse(DateFormat, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week key %q: %w", key, err)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week key %q is not a Monday", key)
	}
	return t, nil
}

// IsTrainingDay reports whether day is one of monday..friday.
func IsTrainingDay(day string) bool {
	for _, d := range TrainingDays {
		if d == day {
			return true
		}
	}
	return false
}

// NormalizeDay lower-cases and trims a day name.
func NormalizeDay(day string) string {
	return strings.ToLower(strings.TrimSpace(day))
}
