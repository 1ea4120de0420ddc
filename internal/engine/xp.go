package engine

import (
	"math"

	"lifequest/internal/storage"
)

// CalculateFinalPoints applies the multipliers in a fixed order, each on the
// previous result:
//
//	raw       = base * difficultyMultiplier
//	withTime  = raw * (1 + timeBonus)
//	withChain = withTime * (1 + chainBonus)
//
// and rounds half up. Negative inputs are treated as zero.
func CalculateFinalPoints(basePoints int, difficultyMultiplier, timeBonus, chainBonus float64) int {
	if basePoints <= 0 {
		return 0
	}
	difficultyMultiplier = math.Max(0, difficultyMultiplier)
	timeBonus = math.Max(0, timeBonus)
	chainBonus = math.Max(0, chainBonus)

	raw := float64(basePoints) * difficultyMultiplier
	withTime := raw * (1 + timeBonus)
	withChain := withTime * (1 + chainBonus)
	return roundHalfUp(withChain)
}

func roundHalfUp(x float64) int {
	// Guard against 19.999999 style float error before flooring.
	return int(math.Floor(x + 0.5 + 1e-9))
}

// LevelUp reports what ApplyExperience changed.
type LevelUp struct {
	LevelBefore int
	LevelAfter  int
}

func (l LevelUp) Leveled() bool { return l.LevelAfter > l.LevelBefore }

// ApplyExperience credits earned points to both the spendable balance and
// experience, then resolves level-ups. Overflow carries into the next level,
// so experience < nextLevelAt always holds afterwards.
func ApplyExperience(u *storage.User, earned int, growth float64) LevelUp {
	res := LevelUp{LevelBefore: u.Level}
	if earned < 0 {
		earned = 0
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.NextLevelAt <= 0 {
		u.NextLevelAt = storage.DefaultNextLevelAt
	}
	if u.Experience < 0 {
		u.Experience = 0
	}

	u.Points += earned
	u.Experience += earned
	for u.Experience >= u.NextLevelAt {
		u.Level++
		u.Experience -= u.NextLevelAt
		u.NextLevelAt = nextThreshold(u.NextLevelAt, growth)
	}
	res.LevelAfter = u.Level
	return res
}

// nextThreshold is floor(cur * growth), forced to grow by at least one so the
// level loop always terminates.
func nextThreshold(cur int, growth float64) int {
	next := int(math.Floor(float64(cur) * growth))
	if next <= cur {
		next = cur + 1
	}
	return next
}
