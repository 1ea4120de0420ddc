package engine

import (
	"context"
	"time"

	"lifequest/internal/storage"
)

// AchievementDef is one entry of the fixed achievement table.
type AchievementDef struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Kind        AchievementKind
	Threshold   int
	extract     func(Snapshot) int
}

var achievementDefs = []AchievementDef{
	{
		ID: "habit-starter", Title: "Habit Starter", Description: "Create your first habit",
		Icon: "🌱", Kind: AchievementKindHabits, Threshold: 1, extract: habitCount,
	},
	{
		ID: "habit-master", Title: "Habit Master", Description: "Create 5 different habits",
		Icon: "🌟", Kind: AchievementKindHabits, Threshold: 5, extract: habitCount,
	},
	{
		ID: "streak-warrior", Title: "Streak Warrior", Description: "Maintain a 7-day streak on any habit",
		Icon: "🔥", Kind: AchievementKindHabits, Threshold: 7, extract: maxHabitStreak,
	},
	{
		ID: "reward-creator", Title: "Reward Creator", Description: "Create your first custom reward",
		Icon: "🎁", Kind: AchievementKindRewards, Threshold: 1, extract: customRewardCount,
	},
	{
		ID: "reward-redeemer", Title: "Reward Redeemer", Description: "Redeem 3 rewards",
		Icon: "💎", Kind: AchievementKindRewards, Threshold: 3, extract: redeemedRewardCount,
	},
	{
		ID: "level-up", Title: "Level Up", Description: "Reach level 5",
		Icon: "📈", Kind: AchievementKindSystem, Threshold: 5, extract: userLevel,
	},
	{
		ID: "wizard-graduate", Title: "Wizard Graduate", Description: "Complete the Know Thyself Wizard",
		Icon: "🧙", Kind: AchievementKindSpecial, Threshold: 1, extract: personalized,
	},
	{
		ID: "chain-master", Title: "Chain Master", Description: "Achieve a 5x chain reaction",
		Icon: "⚡", Kind: AchievementKindSpecial, Threshold: 5, extract: chainCount,
	},
}

func AchievementDefs() []AchievementDef {
	return append([]AchievementDef(nil), achievementDefs...)
}

func habitCount(s Snapshot) int { return len(s.Habits) }

func maxHabitStreak(s Snapshot) int {
	max := 0
	for _, h := range s.Habits {
		if h.Streak > max {
			max = h.Streak
		}
	}
	return max
}

func customRewardCount(s Snapshot) int {
	n := 0
	for _, r := range s.Rewards {
		if !storage.IsSeeded(r.ID) {
			n++
		}
	}
	return n
}

func redeemedRewardCount(s Snapshot) int {
	n := 0
	for _, r := range s.Rewards {
		if len(r.RedeemedDates) > 0 {
			n++
		}
	}
	return n
}

func userLevel(s Snapshot) int { return s.User.Level }

func personalized(s Snapshot) int {
	if s.User.Preferences != nil {
		return 1
	}
	return 0
}

func chainCount(s Snapshot) int { return clampChainCount(s.User.ChainReaction.Count) }

func (d AchievementDef) blank() storage.Achievement {
	return storage.Achievement{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Icon:        d.Icon,
		Condition:   storage.Condition{Type: string(d.Kind), Threshold: d.Threshold},
	}
}

// EvaluateAchievements rescans snap against the fixed table. Progress only
// grows and an unlocked achievement stays unlocked. Stored entries unknown to
// the table are kept as they are.
func EvaluateAchievements(current []storage.Achievement, snap Snapshot, now time.Time) (all, unlocked []storage.Achievement) {
	byID := make(map[string]storage.Achievement, len(current))
	for _, a := range current {
		byID[a.ID] = a
	}

	known := make(map[string]bool, len(achievementDefs))
	for _, d := range achievementDefs {
		known[d.ID] = true
		a, ok := byID[d.ID]
		if !ok {
			a = d.blank()
		}
		a.Title, a.Description, a.Icon = d.Title, d.Description, d.Icon
		a.Condition = storage.Condition{Type: string(d.Kind), Threshold: d.Threshold}

		progress := d.extract(snap)
		if progress > d.Threshold {
			progress = d.Threshold
		}
		if progress > a.Progress {
			a.Progress = progress
		}
		if !a.Unlocked && a.Progress >= d.Threshold {
			a.Unlocked = true
			t := now
			a.UnlockedAt = &t
			unlocked = append(unlocked, a)
		}
		all = append(all, a)
	}
	for _, a := range current {
		if !known[a.ID] {
			all = append(all, a)
		}
	}
	return all, unlocked
}

func unlockedIDs(achievements []storage.Achievement) []string {
	ids := []string{}
	for _, a := range achievements {
		if a.Unlocked {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// AchievementStatus pairs a definition with its stored state.
type AchievementStatus struct {
	Def   AchievementDef
	State storage.Achievement
}

// Achievements lists every achievement in table order, evaluated against the
// current state without writing.
func (s *Service) Achievements(ctx context.Context) ([]AchievementStatus, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	all, _ := EvaluateAchievements(snap.Achievements, *snap, s.now())
	byID := make(map[string]storage.Achievement, len(all))
	for _, a := range all {
		byID[a.ID] = a
	}
	out := make([]AchievementStatus, 0, len(achievementDefs))
	for _, d := range achievementDefs {
		out = append(out, AchievementStatus{Def: d, State: byID[d.ID]})
	}
	return out, nil
}

// CountUnlocked returns how many achievements in list are unlocked.
func CountUnlocked(list []AchievementStatus) int {
	n := 0
	for _, a := range list {
		if a.State.Unlocked {
			n++
		}
	}
	return n
}
