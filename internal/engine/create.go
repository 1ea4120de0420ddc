package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

type HabitInput struct {
	Name        string
	Description string
	Frequency   Frequency
	Points      int
	Category    HabitCategory
}

type RewardInput struct {
	Name        string
	Description string
	Cost        int
	Category    RewardCategory
}

func (s *Service) AddHabit(ctx context.Context, in HabitInput) (*storage.Habit, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Points <= 0 {
		return nil, fmt.Errorf("points must be > 0")
	}
	freq := in.Frequency
	if !freq.IsValid() {
		freq = DefaultFrequency
	}
	cat := in.Category
	if !cat.IsValid() {
		cat = DefaultHabitCategory
	}

	h := storage.Habit{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		Frequency:      string(freq),
		Points:         in.Points,
		Category:       string(cat),
		CreatedAt:      s.now(),
		CompletedDates: []string{},
	}
	err = s.store.Atomic(ctx, func(tx storage.Collections) error {
		habits, err := tx.Habits(ctx)
		if err != nil {
			return err
		}
		return tx.SaveHabits(ctx, append(habits, h))
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"habit": h.ID, "name": h.Name}).Info("habit added")

	if _, err := s.afterCommit(ctx); err != nil {
		return &h, err
	}
	return &h, nil
}

func (s *Service) AddReward(ctx context.Context, in RewardInput) (*storage.Reward, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Cost <= 0 {
		return nil, fmt.Errorf("cost must be > 0")
	}
	cat := in.Category
	if !cat.IsValid() {
		cat = DefaultRewardCategory
	}

	r := storage.Reward{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Cost:          in.Cost,
		Category:      string(cat),
		CreatedAt:     s.now(),
		RedeemedDates: []time.Time{},
	}
	err = s.store.Atomic(ctx, func(tx storage.Collections) error {
		rewards, err := tx.Rewards(ctx)
		if err != nil {
			return err
		}
		return tx.SaveRewards(ctx, append(rewards, r))
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"reward": r.ID, "name": r.Name}).Info("reward added")

	if _, err := s.afterCommit(ctx); err != nil {
		return &r, err
	}
	return &r, nil
}
