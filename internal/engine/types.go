package engine

type Frequency string

const (
	FrequencyDaily    Frequency = "Daily"
	FrequencyWeekdays Frequency = "Weekdays"
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyMonthly  Frequency = "Monthly"
	FrequencyCustom   Frequency = "Custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// DefaultFrequency is used when stored data is missing/invalid.
const DefaultFrequency Frequency = FrequencyDaily

type HabitCategory string

const (
	HabitCategoryWellness     HabitCategory = "Wellness"
	HabitCategoryHealth       HabitCategory = "Health"
	HabitCategoryProductivity HabitCategory = "Productivity"
	HabitCategoryLearning     HabitCategory = "Learning"
	HabitCategorySocial       HabitCategory = "Social"
	HabitCategoryFinance      HabitCategory = "Finance"
	HabitCategoryOther        HabitCategory = "Other"
)

func (c HabitCategory) IsValid() bool {
	switch c {
	case HabitCategoryWellness, HabitCategoryHealth, HabitCategoryProductivity, HabitCategoryLearning,
		HabitCategorySocial, HabitCategoryFinance, HabitCategoryOther:
		return true
	default:
		return false
	}
}

const DefaultHabitCategory HabitCategory = HabitCategoryOther

type RewardCategory string

const (
	RewardCategoryEntertainment RewardCategory = "Entertainment"
	RewardCategoryFoodAndDrink  RewardCategory = "Food & Drink"
	RewardCategoryLeisure       RewardCategory = "Leisure"
	RewardCategoryShopping      RewardCategory = "Shopping"
	RewardCategoryExperience    RewardCategory = "Experience"
	RewardCategoryOther         RewardCategory = "Other"
)

func (c RewardCategory) IsValid() bool {
	switch c {
	case RewardCategoryEntertainment, RewardCategoryFoodAndDrink, RewardCategoryLeisure,
		RewardCategoryShopping, RewardCategoryExperience, RewardCategoryOther:
		return true
	default:
		return false
	}
}

const DefaultRewardCategory RewardCategory = RewardCategoryOther

// AchievementKind groups achievements the way the badge page does.
type AchievementKind string

const (
	AchievementKindHabits  AchievementKind = "habits"
	AchievementKindRewards AchievementKind = "rewards"
	AchievementKindSystem  AchievementKind = "system"
	AchievementKindSpecial AchievementKind = "special"
)

type FocusArea string

const (
	FocusProductivity FocusArea = "productivity"
	FocusHealth       FocusArea = "health"
	FocusLearning     FocusArea = "learning"
	FocusWellness     FocusArea = "wellness"
)

func (f FocusArea) IsValid() bool {
	switch f {
	case FocusProductivity, FocusHealth, FocusLearning, FocusWellness:
		return true
	default:
		return false
	}
}

type MotivationType string

const (
	MotivationAchievement MotivationType = "achievement"
	MotivationGrowth      MotivationType = "growth"
	MotivationSocial      MotivationType = "social"
	MotivationRewards     MotivationType = "rewards"
)

func (m MotivationType) IsValid() bool {
	switch m {
	case MotivationAchievement, MotivationGrowth, MotivationSocial, MotivationRewards:
		return true
	default:
		return false
	}
}

type DifficultyPreference string

const (
	DifficultyEasy        DifficultyPreference = "easy"
	DifficultyModerate    DifficultyPreference = "moderate"
	DifficultyChallenging DifficultyPreference = "challenging"
)

func (d DifficultyPreference) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	default:
		return false
	}
}

type RewardPreference string

const (
	RewardFrequent  RewardPreference = "frequent"
	RewardBalanced  RewardPreference = "balanced"
	RewardMilestone RewardPreference = "milestone"
)

func (r RewardPreference) IsValid() bool {
	switch r {
	case RewardFrequent, RewardBalanced, RewardMilestone:
		return true
	default:
		return false
	}
}
