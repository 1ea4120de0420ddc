package engine

import (
	"context"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/backup"
	"lifequest/internal/storage"
)

// Export captures user, habits, rewards and game state as a bundle.
func (s *Service) Export(ctx context.Context) (*backup.Bundle, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &backup.Bundle{
		User:       snap.User,
		Habits:     snap.Habits,
		Rewards:    snap.Rewards,
		GameState:  snap.GameState,
		ExportDate: s.now(),
		Version:    backup.Version,
	}, nil
}

// Import overwrites the four bundle collections in one unit. Achievements
// are re-derived from the imported state afterwards.
func (s *Service) Import(ctx context.Context, b *backup.Bundle) error {
	u := b.User
	u.ChainReaction.Count = clampChainCount(u.ChainReaction.Count)
	if u.Points < 0 {
		u.Points = 0
	}
	habits := make([]storage.Habit, len(b.Habits))
	for i, h := range b.Habits {
		h.CompletedDates = s.normalizeDays(h.CompletedDates)
		habits[i] = h
	}
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		if err := tx.SaveHabits(ctx, habits); err != nil {
			return err
		}
		if err := tx.SaveRewards(ctx, b.Rewards); err != nil {
			return err
		}
		return tx.SaveGameState(ctx, b.GameState)
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"habits": len(b.Habits), "rewards": len(b.Rewards)}).Info("backup imported")

	_, err = s.afterCommit(ctx)
	return err
}

// normalizeDays rewrites completion dates as one day key per calendar day,
// keeping first-seen order. Unparseable entries are dropped.
func (s *Service) normalizeDays(dates []string) []string {
	out := make([]string, 0, len(dates))
	seen := make(map[string]bool, len(dates))
	for _, raw := range dates {
		d, ok := parseDay(raw, s.loc)
		if !ok {
			log.WithField("date", raw).Warn("dropping unreadable completion date")
			continue
		}
		key := DayKey(d, s.loc)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

// Reset overwrites user, habits, rewards and game state with first-run
// defaults. Unlocked achievements survive a reset.
func (s *Service) Reset(ctx context.Context) error {
	now := s.now()
	u := storage.DefaultUser(now)
	u.NextLevelAt = s.tuning.Leveling.StartingNextLevelAt
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		if err := tx.SaveHabits(ctx, storage.DefaultHabits(now)); err != nil {
			return err
		}
		if err := tx.SaveRewards(ctx, storage.DefaultRewards(now)); err != nil {
			return err
		}
		return tx.SaveGameState(ctx, storage.DefaultGameState(now))
	})
	if err != nil {
		return err
	}
	log.Info("progress reset")

	_, err = s.afterCommit(ctx)
	return err
}
