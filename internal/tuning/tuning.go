package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the economy constants. Default() matches the shipped game;
// a YAML file may override any subset of fields.
type Tuning struct {
	Leveling        Leveling     `yaml:"leveling"`
	GoalGradient    GoalGradient `yaml:"goal_gradient"`
	FallbackWindows []Window     `yaml:"fallback_windows"`

	// QuestStreakRate scales the streak bonus for adventure quests:
	// bonus = floor(streakDays * rate * questPoints).
	QuestStreakRate float64 `yaml:"quest_streak_rate"`
}

type Leveling struct {
	StartingNextLevelAt int     `yaml:"starting_next_level_at"`
	Growth              float64 `yaml:"growth"`
}

type GoalGradient struct {
	HighRatio      float64 `yaml:"high_ratio"`
	HighMultiplier float64 `yaml:"high_multiplier"`
	MidRatio       float64 `yaml:"mid_ratio"`
	MidMultiplier  float64 `yaml:"mid_multiplier"`
}

// Window is an hour range [Start, End) granting Bonus.
type Window struct {
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Bonus float64 `yaml:"bonus"`
	Type  string  `yaml:"type"`
}

func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

func Default() Tuning {
	return Tuning{
		Leveling: Leveling{
			StartingNextLevelAt: 100,
			Growth:              1.5,
		},
		GoalGradient: GoalGradient{
			HighRatio:      0.75,
			HighMultiplier: 2.0,
			MidRatio:       0.5,
			MidMultiplier:  1.5,
		},
		FallbackWindows: []Window{
			{Start: 5, End: 9, Bonus: 0.25, Type: "morning"},
			{Start: 19, End: 22, Bonus: 0.15, Type: "evening"},
		},
		QuestStreakRate: 0.1,
	}
}

// Load reads path and overlays it on Default().
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	if t.Leveling.StartingNextLevelAt <= 0 {
		return fmt.Errorf("leveling.starting_next_level_at must be > 0")
	}
	if t.Leveling.Growth <= 1 {
		return fmt.Errorf("leveling.growth must be > 1")
	}
	g := t.GoalGradient
	if g.MidRatio < 0 || g.HighRatio < g.MidRatio || g.HighRatio > 1 {
		return fmt.Errorf("goal_gradient ratios must satisfy 0 <= mid <= high <= 1")
	}
	if g.MidMultiplier < 1 || g.HighMultiplier < g.MidMultiplier {
		return fmt.Errorf("goal_gradient multipliers must satisfy 1 <= mid <= high")
	}
	for i, w := range t.FallbackWindows {
		if w.Start < 0 || w.End > 24 || w.Start >= w.End {
			return fmt.Errorf("fallback_windows[%d]: invalid hour range [%d,%d)", i, w.Start, w.End)
		}
		if w.Bonus < 0 {
			return fmt.Errorf("fallback_windows[%d]: bonus must be >= 0", i)
		}
	}
	if t.QuestStreakRate < 0 {
		return fmt.Errorf("quest_streak_rate must be >= 0")
	}
	return nil
}
