package engine

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

type CompleteResult struct {
	HabitID   string
	HabitName string

	// Completed is false when the habit was already done today; nothing was
	// written in that case.
	Completed     bool
	PointsAwarded int
	Bonuses       Bonuses
	Streak        int
	ChainCount    int
	LevelBefore   int
	LevelAfter    int
	LevelUp       bool

	User   storage.User
	Habits []storage.Habit

	Unlocked   []storage.Achievement
	Discovered []World
}

func habitIndex(habits []storage.Habit, id string) int {
	for i, h := range habits {
		if h.ID == id {
			return i
		}
	}
	return -1
}

// CompleteHabit records today's completion of a habit and credits its reward.
// A second completion on the same calendar day is a no-op.
func (s *Service) CompleteHabit(ctx context.Context, habitID string) (*CompleteResult, error) {
	now := s.now()
	today := startOfDay(now, s.loc)
	res := &CompleteResult{HabitID: habitID}

	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		habits, err := tx.Habits(ctx)
		if err != nil {
			return err
		}
		idx := habitIndex(habits, habitID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
		}
		h := habits[idx]
		res.HabitName = h.Name
		res.Streak = h.Streak
		res.ChainCount = LiveChainCount(u.ChainReaction, now, s.loc)
		res.LevelBefore, res.LevelAfter = u.Level, u.Level
		res.User, res.Habits = u, habits

		if completedOn(h, today, s.loc) {
			return nil
		}

		// Bonuses read the snapshot before this completion lands.
		b := s.bonuses(u, habits, now)
		points := b.Points(h.Points)

		h.Streak = nextStreak(h, today, s.loc)
		h.CompletedDates = append(append([]string(nil), h.CompletedDates...), DayKey(now, s.loc))
		updated := append([]storage.Habit(nil), habits...)
		updated[idx] = h

		lvl := ApplyExperience(&u, points, s.tuning.Leveling.Growth)
		s.markActive(&u, now)
		u.ChainReaction = AdvanceChain(u.ChainReaction, now, s.loc)

		if err := tx.SaveHabits(ctx, updated); err != nil {
			return err
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}

		res.Completed = true
		res.PointsAwarded = points
		res.Bonuses = b
		res.Streak = h.Streak
		res.ChainCount = u.ChainReaction.Count
		res.LevelAfter = lvl.LevelAfter
		res.LevelUp = lvl.Leveled()
		res.User, res.Habits = u, updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.Completed {
		log.WithField("habit", habitID).Debug("habit already completed today")
		return res, nil
	}

	log.WithFields(log.Fields{
		"habit":      habitID,
		"points":     res.PointsAwarded,
		"streak":     res.Streak,
		"chain":      res.ChainCount,
		"user_level": res.LevelAfter,
	}).Info("habit completed")

	post, err := s.afterCommit(ctx)
	if err != nil {
		return res, err
	}
	res.Unlocked = post.Unlocked
	res.Discovered = post.Discovered
	return res, nil
}
