package engine

import (
	"fmt"
	"strings"
)

// ParseFrequency parses user input to a Frequency.
// Supported: daily, weekdays, weekly, monthly, custom (case-insensitive).
func ParseFrequency(input string) (Frequency, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultFrequency, nil
	case "daily", "day", "everyday":
		return FrequencyDaily, nil
	case "weekdays", "weekday", "workdays":
		return FrequencyWeekdays, nil
	case "weekly", "week":
		return FrequencyWeekly, nil
	case "monthly", "month":
		return FrequencyMonthly, nil
	case "custom":
		return FrequencyCustom, nil
	default:
		return "", fmt.Errorf("invalid frequency: %q", input)
	}
}

// ParseHabitCategory parses user input to a HabitCategory.
// Empty input yields DefaultHabitCategory.
func ParseHabitCategory(input string) (HabitCategory, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultHabitCategory, nil
	case "wellness", "mindfulness":
		return HabitCategoryWellness, nil
	case "health", "fitness":
		return HabitCategoryHealth, nil
	case "productivity", "work":
		return HabitCategoryProductivity, nil
	case "learning", "growth", "study":
		return HabitCategoryLearning, nil
	case "social":
		return HabitCategorySocial, nil
	case "finance", "money":
		return HabitCategoryFinance, nil
	case "other":
		return HabitCategoryOther, nil
	default:
		return "", fmt.Errorf("invalid habit category: %q", input)
	}
}

// ParseRewardCategory parses user input to a RewardCategory.
// Empty input yields DefaultRewardCategory.
func ParseRewardCategory(input string) (RewardCategory, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "":
		return DefaultRewardCategory, nil
	case "entertainment", "games", "fun":
		return RewardCategoryEntertainment, nil
	case "food & drink", "food", "drink", "food-and-drink":
		return RewardCategoryFoodAndDrink, nil
	case "leisure", "rest":
		return RewardCategoryLeisure, nil
	case "shopping":
		return RewardCategoryShopping, nil
	case "experience", "experiences", "travel":
		return RewardCategoryExperience, nil
	case "other":
		return RewardCategoryOther, nil
	default:
		return "", fmt.Errorf("invalid reward category: %q", input)
	}
}

// parseStoredFrequency never fails: bad stored values fall back to the default.
func parseStoredFrequency(s string) Frequency {
	f, err := ParseFrequency(s)
	if err != nil {
		return DefaultFrequency
	}
	return f
}

func parseStoredDifficultyPreference(s string) DifficultyPreference {
	d := DifficultyPreference(strings.TrimSpace(strings.ToLower(s)))
	if d.IsValid() {
		return d
	}
	return DifficultyModerate
}

func parseStoredRewardPreference(s string) RewardPreference {
	r := RewardPreference(strings.TrimSpace(strings.ToLower(s)))
	if r.IsValid() {
		return r
	}
	return RewardBalanced
}
