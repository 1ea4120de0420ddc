package engine

import (
	"context"
	"fmt"
	"strings"

	"lifequest/internal/storage"
)

// match resolves query against (id, name) pairs: exact id first, then a
// unique id prefix, then a case-insensitive name.
func match(query string, ids, names []string) (int, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return -1, nil
	}
	for i, id := range ids {
		if id == q {
			return i, nil
		}
	}

	var hits []int
	for i, id := range ids {
		if strings.HasPrefix(id, q) {
			hits = append(hits, i)
		}
	}
	if len(hits) == 0 {
		for i, n := range names {
			if strings.EqualFold(n, q) {
				hits = append(hits, i)
			}
		}
	}
	switch len(hits) {
	case 0:
		return -1, nil
	case 1:
		return hits[0], nil
	default:
		matches := make([]string, 0, len(hits))
		for _, i := range hits {
			matches = append(matches, ids[i])
		}
		return -1, AmbiguousError{Query: q, Matches: matches}
	}
}

func (s *Service) FindHabit(ctx context.Context, query string) (*storage.Habit, error) {
	habits, err := s.store.Habits(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(habits))
	names := make([]string, len(habits))
	for i, h := range habits {
		ids[i], names[i] = h.ID, h.Name
	}
	i, err := match(query, ids, names)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, query)
	}
	return &habits[i], nil
}

func (s *Service) FindReward(ctx context.Context, query string) (*storage.Reward, error) {
	rewards, err := s.store.Rewards(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rewards))
	names := make([]string, len(rewards))
	for i, r := range rewards {
		ids[i], names[i] = r.ID, r.Name
	}
	i, err := match(query, ids, names)
	if err != nil {
		return nil, err
	}
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRewardNotFound, query)
	}
	return &rewards[i], nil
}
