package engine

import (
	"context"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

type RolloverResult struct {
	HabitsReset  []string
	StreakDays   bool
	ChainCleared bool
}

func (r RolloverResult) Changed() bool {
	return len(r.HabitsReset) > 0 || r.StreakDays || r.ChainCleared
}

// Rollover decays state that can no longer continue today: habit streaks
// whose period lapsed, a stale activity streak and yesterday's chain.
// Running it twice on the same day changes nothing the second time.
func (s *Service) Rollover(ctx context.Context) (*RolloverResult, error) {
	now := s.now()
	today := startOfDay(now, s.loc)
	res := &RolloverResult{}

	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		habits, err := tx.Habits(ctx)
		if err != nil {
			return err
		}

		updated := append([]storage.Habit(nil), habits...)
		for i, h := range updated {
			if h.Streak > 0 && !streakAlive(h, today, s.loc) {
				updated[i].Streak = 0
				res.HabitsReset = append(res.HabitsReset, h.ID)
			}
		}

		if u.StreakDays > 0 {
			if u.LastLogin == nil || startOfDay(*u.LastLogin, s.loc).Before(addDays(today, -1)) {
				u.StreakDays = 0
				res.StreakDays = true
			}
		}
		if u.ChainReaction.Count > 0 && !chainLive(u.ChainReaction, now, s.loc) {
			u.ChainReaction.Count = 0
			res.ChainCleared = true
		}

		if len(res.HabitsReset) > 0 {
			if err := tx.SaveHabits(ctx, updated); err != nil {
				return err
			}
		}
		if res.StreakDays || res.ChainCleared {
			return tx.SaveUser(ctx, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Changed() {
		log.WithFields(log.Fields{
			"habits_reset":  len(res.HabitsReset),
			"streak_days":   res.StreakDays,
			"chain_cleared": res.ChainCleared,
		}).Info("daily rollover")
	}
	return res, nil
}
