package engine

import (
	"errors"
	"fmt"
)

var (
	ErrHabitNotFound  = errors.New("habit not found")
	ErrRewardNotFound = errors.New("reward not found")
	ErrQuestNotFound  = errors.New("quest not found")
	ErrWorldNotFound  = errors.New("world not found")
)

// GateError indicates a world is locked behind a required user level.
// This is returned by gate checks and should be shown to the user.
type GateError struct {
	Feature       string
	RequiredLevel int
}

func (e GateError) Error() string {
	if e.RequiredLevel <= 0 {
		return fmt.Sprintf("'%s' is locked", e.Feature)
	}
	return fmt.Sprintf("'%s' unlocks at level %d", e.Feature, e.RequiredLevel)
}

// AmbiguousError is returned when a lookup matches more than one item.
type AmbiguousError struct {
	Query   string
	Matches []string
}

func (e AmbiguousError) Error() string {
	return fmt.Sprintf("%q matches %d items: %v", e.Query, len(e.Matches), e.Matches)
}
