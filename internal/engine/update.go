package engine

import (
	"context"
	"fmt"
	"strings"

	"lifequest/internal/storage"
)

// HabitPatch changes only the fields that are set. Streak and completion
// history are never edited directly.
type HabitPatch struct {
	Name        *string
	Description *string
	Frequency   *Frequency
	Points      *int
	Category    *HabitCategory
}

func (s *Service) UpdateHabit(ctx context.Context, id string, p HabitPatch) (*storage.Habit, error) {
	var out storage.Habit
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		habits, err := tx.Habits(ctx)
		if err != nil {
			return err
		}
		idx := habitIndex(habits, id)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		h := habits[idx]

		if p.Name != nil {
			name, err := normalizeName(*p.Name)
			if err != nil {
				return err
			}
			h.Name = name
		}
		if p.Description != nil {
			h.Description = strings.TrimSpace(*p.Description)
		}
		if p.Frequency != nil {
			if !p.Frequency.IsValid() {
				return fmt.Errorf("invalid frequency: %q", *p.Frequency)
			}
			h.Frequency = string(*p.Frequency)
		}
		if p.Points != nil {
			if *p.Points <= 0 {
				return fmt.Errorf("points must be > 0")
			}
			h.Points = *p.Points
		}
		if p.Category != nil {
			if !p.Category.IsValid() {
				return fmt.Errorf("invalid habit category: %q", *p.Category)
			}
			h.Category = string(*p.Category)
		}

		habits[idx] = h
		out = h
		return tx.SaveHabits(ctx, habits)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
