package engine

import (
	"context"

	"lifequest/internal/storage"
)

// HabitOutlook is a habit with what completing it right now would earn.
type HabitOutlook struct {
	Habit        storage.Habit
	DoneToday    bool
	StreakAlive  bool
	PointsIfDone int
}

type Overview struct {
	User              storage.User
	Bonuses           Bonuses
	Habits            []HabitOutlook
	Rewards           []storage.Reward
	GameState         storage.GameState
	Unlocked          int
	TotalAchievements int
}

// Overview reports the current state and the bonuses in effect at this moment.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := startOfDay(now, s.loc)
	b := s.bonuses(snap.User, snap.Habits, now)

	out := &Overview{
		User:              snap.User,
		Bonuses:           b,
		Rewards:           snap.Rewards,
		GameState:         snap.GameState,
		TotalAchievements: len(achievementDefs),
	}
	for _, h := range snap.Habits {
		done := completedOn(h, today, s.loc)
		o := HabitOutlook{
			Habit:       h,
			DoneToday:   done,
			StreakAlive: streakAlive(h, today, s.loc),
		}
		if !done {
			o.PointsIfDone = b.Points(h.Points)
		}
		out.Habits = append(out.Habits, o)
	}
	all, _ := EvaluateAchievements(snap.Achievements, *snap, now)
	for _, a := range all {
		if a.Unlocked {
			out.Unlocked++
		}
	}
	return out, nil
}

// CanAfford reports whether the user can redeem r right now.
func (o *Overview) CanAfford(r storage.Reward) bool {
	return o.User.Points >= r.Cost
}
