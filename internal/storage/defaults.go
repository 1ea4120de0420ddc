package storage

import (
	"strings"
	"time"
)

const (
	DefaultUserID   = "user-1"
	DefaultUserName = "Adventurer"
	DefaultWorld    = "forest"

	// SeedIDPrefix marks habits and rewards created by first-run seeding, as
	// opposed to ones the user added.
	SeedIDPrefix = "default-"
)

// DefaultNextLevelAt is the level-1 threshold used when no tuning overrides it.
const DefaultNextLevelAt = 100

func DefaultUser(now time.Time) User {
	return User{
		ID:          DefaultUserID,
		Name:        DefaultUserName,
		Level:       1,
		Experience:  0,
		NextLevelAt: DefaultNextLevelAt,
		Points:      0,
		StreakDays:  0,
		CreatedAt:   now,
	}
}

func DefaultHabits(now time.Time) []Habit {
	return []Habit{
		{
			ID:             SeedIDPrefix + "habit-1",
			Name:           "Morning Meditation",
			Description:    "10 minutes of mindfulness to start the day",
			Frequency:      "Daily",
			Points:         10,
			Category:       "Wellness",
			CreatedAt:      now,
			CompletedDates: []string{},
		},
		{
			ID:             SeedIDPrefix + "habit-2",
			Name:           "Exercise",
			Description:    "30 minutes of physical activity",
			Frequency:      "Daily",
			Points:         15,
			Category:       "Health",
			CreatedAt:      now,
			CompletedDates: []string{},
		},
	}
}

func DefaultRewards(now time.Time) []Reward {
	return []Reward{
		{
			ID:            SeedIDPrefix + "reward-1",
			Name:          "30min Gaming Break",
			Description:   "Take a break and play your favorite game",
			Cost:          50,
			Category:      "Entertainment",
			CreatedAt:     now,
			RedeemedDates: []time.Time{},
		},
		{
			ID:            SeedIDPrefix + "reward-2",
			Name:          "Coffee Shop Visit",
			Description:   "Treat yourself to a nice coffee",
			Cost:          75,
			Category:      "Food & Drink",
			CreatedAt:     now,
			RedeemedDates: []time.Time{},
		},
	}
}

func DefaultGameState(now time.Time) GameState {
	return GameState{
		CharacterLevel:   1,
		Achievements:     []string{},
		LastPlayed:       now,
		WorldsDiscovered: []string{DefaultWorld},
		QuestsCompleted:  []string{},
		CurrentWorld:     DefaultWorld,
	}
}

// IsSeeded reports whether id was assigned by first-run seeding.
func IsSeeded(id string) bool {
	return strings.HasPrefix(id, SeedIDPrefix)
}
