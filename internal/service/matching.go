package service

import (
	"strings"

	"rocksolid/climbing-trainer/internal/domain"
)

// Normalized experience levels, checked in this order.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

var levelOrder = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// goalTagTable maps lower-cased survey goal labels to catalog category keywords.
var goalTagTable = map[string][]string{
	"build power and strength":               {"Strength", "Power"},
	"enhance core strength and body tension": {"Core", "Stability"},
	"increase finger strength":               {"Finger", "Grip"},
	"improve overall endurance":              {"Endurance", "Aerobic"},
	"general fitness and health":             {"Endurance", "Stability", "Core"},
}

// normalizeLevel maps a free-text experience label to Beginner, Intermediate or Advanced.
// The first level contained in the label wins; unknown labels are Beginner.
func normalizeLevel(raw string) string {
	lower := strings.ToLower(raw)
	for _, level := range levelOrder {
		if strings.Contains(lower, strings.ToLower(level)) {
			return level
		}
	}
	return LevelBeginner
}

// goalTags collects the category keywords of every recognised goal, without duplicates.
// Unrecognised goals add nothing.
func goalTags(goals []string) []string {
	if len(goals) == 0 {
		goals = []string{domain.DefaultGoal}
	}
	var tags []string
	seen := make(map[string]bool)
	for _, goal := range goals {
		for _, tag := range goalTagTable[strings.ToLower(strings.TrimSpace(goal))] {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// matchesProfile is the catalog filter: the difficulty text must contain the level and the
// category text must contain at least one goal tag. Both checks are case-insensitive
// substring matches because catalog entries carry free text such as "Finger / Grip".
func matchesProfile(ex domain.Exercise, level string, tags []string) bool {
	if !strings.Contains(strings.ToLower(ex.Difficulty), strings.ToLower(level)) {
		return false
	}
	category := strings.ToLower(ex.Category)
	for _, tag := range tags {
		if strings.Contains(category, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}

// filterPool returns the catalog entries that match the profile.
func filterPool(catalog []domain.Exercise, level string, tags []string) []domain.Exercise {
	var pool []domain.Exercise
	for _, ex := range catalog {
		if matchesProfile(ex, level, tags) {
			pool = append(pool, ex)
		}
	}
	return pool
}
