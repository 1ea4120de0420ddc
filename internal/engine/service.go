package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
	"lifequest/internal/tuning"
)

type Service struct {
	store  storage.Store
	now    func() time.Time
	loc    *time.Location
	tuning tuning.Tuning
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithTuning(t tuning.Tuning) Option {
	return func(s *Service) { s.tuning = t }
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		now:    time.Now,
		loc:    time.Local,
		tuning: tuning.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location { return s.loc }
func (s *Service) Now() time.Time           { return s.now() }

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("name is required")
	}
	return n, nil
}

// Snapshot is every collection read in one unit.
type Snapshot struct {
	User         storage.User
	Habits       []storage.Habit
	Rewards      []storage.Reward
	GameState    storage.GameState
	Achievements []storage.Achievement
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		var err error
		snap, err = s.loadSnapshot(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Service) loadSnapshot(ctx context.Context, tx storage.Collections) (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.User, err = s.loadUser(ctx, tx); err != nil {
		return snap, err
	}
	if snap.Habits, err = tx.Habits(ctx); err != nil {
		return snap, err
	}
	if snap.Rewards, err = tx.Rewards(ctx); err != nil {
		return snap, err
	}
	if snap.GameState, err = tx.GameState(ctx); err != nil {
		return snap, err
	}
	if snap.Achievements, err = tx.Achievements(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

// loadUser reads the user and gives a never-active one the tuned level-1
// threshold.
func (s *Service) loadUser(ctx context.Context, tx storage.Collections) (storage.User, error) {
	u, err := tx.User(ctx)
	if err != nil {
		return u, err
	}
	if u.LastLogin == nil && u.Level <= 1 && u.Experience == 0 {
		u.NextLevelAt = s.tuning.Leveling.StartingNextLevelAt
	}
	if u.Level < 1 {
		u.Level = 1
	}
	if u.NextLevelAt <= 0 {
		u.NextLevelAt = s.tuning.Leveling.StartingNextLevelAt
	}
	u.ChainReaction.Count = clampChainCount(u.ChainReaction.Count)
	return u, nil
}

// markActive advances the daily activity streak and stamps lastLogin.
func (s *Service) markActive(u *storage.User, now time.Time) {
	today := startOfDay(now, s.loc)
	switch {
	case u.LastLogin == nil:
		u.StreakDays = 1
	case startOfDay(*u.LastLogin, s.loc).Equal(today):
		if u.StreakDays < 1 {
			u.StreakDays = 1
		}
	case startOfDay(*u.LastLogin, s.loc).Equal(addDays(today, -1)):
		u.StreakDays++
	default:
		u.StreakDays = 1
	}
	t := now
	u.LastLogin = &t
}

// PostCommit is what the follow-up pass after a write changed.
type PostCommit struct {
	Unlocked   []storage.Achievement
	Discovered []World
}

// afterCommit re-evaluates achievements and world discovery against the
// state a successful write left behind.
func (s *Service) afterCommit(ctx context.Context) (PostCommit, error) {
	var out PostCommit
	now := s.now()
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		snap, err := s.loadSnapshot(ctx, tx)
		if err != nil {
			return err
		}

		achievements, unlocked := EvaluateAchievements(snap.Achievements, snap, now)
		gs, discovered := discoverWorlds(snap.GameState, snap.User.Level)
		gs.CharacterLevel = snap.User.Level
		gs.Achievements = unlockedIDs(achievements)
		gs.LastPlayed = now

		if err := tx.SaveAchievements(ctx, achievements); err != nil {
			return err
		}
		if err := tx.SaveGameState(ctx, gs); err != nil {
			return err
		}
		out = PostCommit{Unlocked: unlocked, Discovered: discovered}
		return nil
	})
	if err != nil {
		return out, fmt.Errorf("post-commit: %w", err)
	}
	for _, a := range out.Unlocked {
		log.WithField("achievement", a.ID).Info("achievement unlocked")
	}
	for _, w := range out.Discovered {
		log.WithField("world", w.Key).Info("world discovered")
	}
	return out, nil
}
