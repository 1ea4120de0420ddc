package engine

import (
	"math"
	"time"

	"lifequest/internal/storage"
	"lifequest/internal/tuning"
)

const (
	MaxChainCount      = 5
	ChainStep          = 0.1
	MaxChainBonus      = 0.5
	ConsistentStreak   = 3
	MaxLoadDifficulty  = 1.5
	MaxLoadReward      = 2.0
	loadDifficultyRate = 0.5
	loadRewardRate     = 1.0
)

// GoalGradient returns the share of habits completed at least once and the
// multiplier it earns.
func GoalGradient(habits []storage.Habit, g tuning.GoalGradient) (ratio, multiplier float64) {
	if len(habits) == 0 {
		return 0, 1.0
	}
	done := 0
	for _, h := range habits {
		if len(h.CompletedDates) > 0 {
			done++
		}
	}
	ratio = float64(done) / float64(len(habits))
	switch {
	case ratio > g.HighRatio:
		return ratio, g.HighMultiplier
	case ratio > g.MidRatio:
		return ratio, g.MidMultiplier
	default:
		return ratio, 1.0
	}
}

// ProgressiveLoad returns the user's personalized load when set, otherwise a
// load derived from how many habits hold a streak of at least three.
func ProgressiveLoad(u storage.User, habits []storage.Habit) (load storage.ProgressiveLoad, personalized bool) {
	if u.ProgressiveLoad != nil {
		return *u.ProgressiveLoad, true
	}
	if len(habits) == 0 {
		return storage.ProgressiveLoad{Difficulty: 1, Reward: 1}, false
	}
	consistent := 0
	for _, h := range habits {
		if h.Streak >= ConsistentStreak {
			consistent++
		}
	}
	r := float64(consistent) / float64(len(habits))
	return storage.ProgressiveLoad{
		Difficulty: math.Min(MaxLoadDifficulty, 1+r*loadDifficultyRate),
		Reward:     math.Min(MaxLoadReward, 1+r*loadRewardRate),
	}, false
}

// TimeBonus is the active time-of-day window, if any.
type TimeBonus struct {
	Bonus        float64
	Window       string
	Personalized bool
}

// TimeContextBonus picks the first window containing the local hour of now.
// Personalized windows replace the fallback ones entirely.
func TimeContextBonus(u storage.User, now time.Time, loc *time.Location, fallback []tuning.Window) TimeBonus {
	hour := now.In(loc).Hour()
	if u.TimeContext != nil && len(u.TimeContext.OptimizedHours) > 0 {
		for _, w := range u.TimeContext.OptimizedHours {
			if hour >= w.Start && hour < w.End {
				return TimeBonus{Bonus: w.Bonus, Window: w.Type, Personalized: true}
			}
		}
		return TimeBonus{Personalized: true}
	}
	for _, w := range fallback {
		if w.Contains(hour) {
			return TimeBonus{Bonus: w.Bonus, Window: w.Type}
		}
	}
	return TimeBonus{}
}

func clampChainCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxChainCount {
		return MaxChainCount
	}
	return n
}

// chainLive reports whether the chain was last extended on the same local
// calendar day as now.
func chainLive(c storage.ChainReaction, now time.Time, loc *time.Location) bool {
	if c.LastCompletedAt == nil {
		return false
	}
	return startOfDay(*c.LastCompletedAt, loc).Equal(startOfDay(now, loc))
}

// LiveChainCount is the chain a completion made at now would build on.
func LiveChainCount(c storage.ChainReaction, now time.Time, loc *time.Location) int {
	if !chainLive(c, now, loc) {
		return 0
	}
	return clampChainCount(c.Count)
}

// ChainBonus is the bonus fraction from the chain live at now.
func ChainBonus(c storage.ChainReaction, now time.Time, loc *time.Location) float64 {
	return math.Min(MaxChainBonus, float64(LiveChainCount(c, now, loc))*ChainStep)
}

// AdvanceChain records a completion at now: a same-day chain grows by one up
// to MaxChainCount, anything else restarts at one.
func AdvanceChain(c storage.ChainReaction, now time.Time, loc *time.Location) storage.ChainReaction {
	next := 1
	if chainLive(c, now, loc) {
		next = clampChainCount(clampChainCount(c.Count) + 1)
	}
	t := now
	return storage.ChainReaction{Count: next, LastCompletedAt: &t}
}

// Bonuses is every calculator evaluated against one snapshot.
type Bonuses struct {
	CompletionRatio      float64
	GoalGradient         float64
	Load                 storage.ProgressiveLoad
	LoadPersonalized     bool
	Time                 TimeBonus
	ChainCount           int
	ChainBonus           float64
	DifficultyMultiplier float64
}

func (s *Service) bonuses(u storage.User, habits []storage.Habit, now time.Time) Bonuses {
	ratio, gg := GoalGradient(habits, s.tuning.GoalGradient)
	load, personalized := ProgressiveLoad(u, habits)
	return Bonuses{
		CompletionRatio:      ratio,
		GoalGradient:         gg,
		Load:                 load,
		LoadPersonalized:     personalized,
		Time:                 TimeContextBonus(u, now, s.loc, s.tuning.FallbackWindows),
		ChainCount:           LiveChainCount(u.ChainReaction, now, s.loc),
		ChainBonus:           ChainBonus(u.ChainReaction, now, s.loc),
		DifficultyMultiplier: gg * load.Reward,
	}
}

// Points is the final award for a habit worth base under b.
func (b Bonuses) Points(base int) int {
	return CalculateFinalPoints(base, b.DifficultyMultiplier, b.Time.Bonus, b.ChainBonus)
}
