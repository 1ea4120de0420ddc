package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Collections is typed get/set access to every persisted collection.
// Loads never fail on missing or corrupt data: they fall back to the typed
// default and log the corruption. Only backend I/O errors are returned.
type Collections interface {
	User(ctx context.Context) (User, error)
	SaveUser(ctx context.Context, u User) error
	Habits(ctx context.Context) ([]Habit, error)
	SaveHabits(ctx context.Context, habits []Habit) error
	Rewards(ctx context.Context) ([]Reward, error)
	SaveRewards(ctx context.Context, rewards []Reward) error
	GameState(ctx context.Context) (GameState, error)
	SaveGameState(ctx context.Context, gs GameState) error
	Achievements(ctx context.Context) ([]Achievement, error)
	SaveAchievements(ctx context.Context, achievements []Achievement) error
}

// Store adds atomic read-modify-write on top of Collections.
type Store interface {
	Collections
	Atomic(ctx context.Context, fn func(tx Collections) error) error
}

// Repo implements Store over any Backend.
type Repo struct {
	backend Backend // nil inside Atomic
	kv      KV
	now     func() time.Time
}

type RepoOption func(*Repo)

// WithRepoClock sets the clock used to stamp default records.
func WithRepoClock(now func() time.Time) RepoOption {
	return func(r *Repo) { r.now = now }
}

func NewRepo(b Backend, opts ...RepoOption) *Repo {
	r := &Repo{backend: b, kv: b, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repo) Atomic(ctx context.Context, fn func(tx Collections) error) error {
	if r.backend == nil {
		return fn(r)
	}
	return r.backend.Atomic(ctx, func(kv KV) error {
		return fn(&Repo{kv: kv, now: r.now})
	})
}

func (r *Repo) User(ctx context.Context) (User, error) {
	return load(ctx, r.kv, KeyUser, func() User { return DefaultUser(r.now()) })
}

func (r *Repo) SaveUser(ctx context.Context, u User) error {
	return save(ctx, r.kv, KeyUser, u)
}

func (r *Repo) Habits(ctx context.Context) ([]Habit, error) {
	return load(ctx, r.kv, KeyHabits, func() []Habit { return DefaultHabits(r.now()) })
}

func (r *Repo) SaveHabits(ctx context.Context, habits []Habit) error {
	if habits == nil {
		habits = []Habit{}
	}
	return save(ctx, r.kv, KeyHabits, habits)
}

func (r *Repo) Rewards(ctx context.Context) ([]Reward, error) {
	return load(ctx, r.kv, KeyRewards, func() []Reward { return DefaultRewards(r.now()) })
}

func (r *Repo) SaveRewards(ctx context.Context, rewards []Reward) error {
	if rewards == nil {
		rewards = []Reward{}
	}
	return save(ctx, r.kv, KeyRewards, rewards)
}

func (r *Repo) GameState(ctx context.Context) (GameState, error) {
	return load(ctx, r.kv, KeyGameState, func() GameState { return DefaultGameState(r.now()) })
}

func (r *Repo) SaveGameState(ctx context.Context, gs GameState) error {
	return save(ctx, r.kv, KeyGameState, gs)
}

// Achievements defaults to an empty list; the engine fills in its catalog.
func (r *Repo) Achievements(ctx context.Context) ([]Achievement, error) {
	return load(ctx, r.kv, KeyAchievements, func() []Achievement { return []Achievement{} })
}

func (r *Repo) SaveAchievements(ctx context.Context, achievements []Achievement) error {
	if achievements == nil {
		achievements = []Achievement{}
	}
	return save(ctx, r.kv, KeyAchievements, achievements)
}

func load[T any](ctx context.Context, kv KV, key Key, fallback func() T) (T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		var zero T
		return zero, err
	}
	if !ok {
		return fallback(), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		log.WithError(err).WithField("key", key).Warn("stored collection is unreadable; using defaults")
		return fallback(), nil
	}
	return v, nil
}

func save[T any](ctx context.Context, kv KV, key Key, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return kv.Put(ctx, key, data)
}
