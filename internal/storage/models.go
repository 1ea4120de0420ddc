package storage

import "time"

// JSON field names follow the browser app's localStorage layout so that its
// backups import unchanged.

type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Level       int        `json:"level"`
	Experience  int        `json:"experience"`
	NextLevelAt int        `json:"nextLevelAt"`
	Points      int        `json:"points"`
	StreakDays  int        `json:"streakDays"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin"`

	ChainReaction ChainReaction `json:"chainReaction"`

	// Set by the Know Thyself onboarding; nil until then.
	Preferences     *Preferences     `json:"preferences,omitempty"`
	ProgressiveLoad *ProgressiveLoad `json:"progressiveLoad,omitempty"`
	TimeContext     *TimeContext     `json:"timeContext,omitempty"`
}

type ChainReaction struct {
	Count           int        `json:"count"`
	LastCompletedAt *time.Time `json:"lastCompletedAt"`
}

type Preferences struct {
	WakeTime             string `json:"wakeTime"`
	SleepTime            string `json:"sleepTime"`
	FocusArea            string `json:"focusArea"`
	Motivation           string `json:"motivation"`
	DifficultyPreference string `json:"difficultyPreference"`
	RewardPreference     string `json:"rewardPreference"`
}

type ProgressiveLoad struct {
	Difficulty float64 `json:"difficulty"`
	Reward     float64 `json:"reward"`
}

type TimeContext struct {
	WakeTime       string       `json:"wakeTime"`
	SleepTime      string       `json:"sleepTime"`
	OptimizedHours []TimeWindow `json:"optimizedHours"`
}

// TimeWindow covers hours [Start, End).
type TimeWindow struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Bonus float64 `json:"bonus"`
	Type  string  `json:"type"`
}

type Habit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Frequency   string    `json:"frequency"`
	Points      int       `json:"points"`
	Streak      int       `json:"streak"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	// CompletedDates holds one YYYY-MM-DD key per completed calendar day.
	CompletedDates []string `json:"completedDates"`
}

type Reward struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Cost          int         `json:"cost"`
	Category      string      `json:"category"`
	CreatedAt     time.Time   `json:"createdAt"`
	RedeemedDates []time.Time `json:"redeemedDates"`
}

type GameState struct {
	CharacterLevel   int       `json:"characterLevel"`
	Achievements     []string  `json:"achievements"`
	LastPlayed       time.Time `json:"lastPlayed"`
	WorldsDiscovered []string  `json:"worldsDiscovered"`
	QuestsCompleted  []string  `json:"questsCompleted"`
	CurrentWorld     string    `json:"currentWorld"`
}

type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Progress    int        `json:"progress"`
	Condition   Condition  `json:"condition"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
}

type Condition struct {
	Type      string `json:"type"`
	Threshold int    `json:"threshold"`
}
