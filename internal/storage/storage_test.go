package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newSQLiteRepo(t *testing.T) *Repo {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(NewSQLiteKV(db))
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
}

func TestMissingKeysReturnDefaults(t *testing.T) {
	for name, repo := range map[string]*Repo{
		"sqlite": newSQLiteRepo(t),
		"memory": NewRepo(NewMemoryKV(), WithRepoClock(fixedNow)),
	} {
		ctx := context.Background()
		u, err := repo.User(ctx)
		if err != nil {
			t.Fatalf("%s: User: %v", name, err)
		}
		if u.Level != 1 || u.NextLevelAt != DefaultNextLevelAt || u.Name != DefaultUserName {
			t.Fatalf("%s: default user=%+v", name, u)
		}
		habits, err := repo.Habits(ctx)
		if err != nil {
			t.Fatalf("%s: Habits: %v", name, err)
		}
		if len(habits) != 2 || !IsSeeded(habits[0].ID) {
			t.Fatalf("%s: expected 2 seeded habits, got %+v", name, habits)
		}
		gs, err := repo.GameState(ctx)
		if err != nil {
			t.Fatalf("%s: GameState: %v", name, err)
		}
		if gs.CurrentWorld != DefaultWorld {
			t.Fatalf("%s: currentWorld=%q, want %q", name, gs.CurrentWorld, DefaultWorld)
		}
		achievements, err := repo.Achievements(ctx)
		if err != nil {
			t.Fatalf("%s: Achievements: %v", name, err)
		}
		if len(achievements) != 0 {
			t.Fatalf("%s: expected no stored achievements, got %d", name, len(achievements))
		}
	}
}

func TestSaveThenLoadUser(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	now := fixedNow()
	u := DefaultUser(now)
	u.Points = 42
	u.ChainReaction = ChainReaction{Count: 3, LastCompletedAt: &now}
	if err := repo.SaveUser(ctx, u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	got, err := repo.User(ctx)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if got.Points != 42 || got.ChainReaction.Count != 3 {
		t.Fatalf("user=%+v", got)
	}
	if got.ChainReaction.LastCompletedAt == nil || !got.ChainReaction.LastCompletedAt.Equal(now) {
		t.Fatalf("lastCompletedAt=%v, want %v", got.ChainReaction.LastCompletedAt, now)
	}
}

func TestEmptyHabitListIsNotReseeded(t *testing.T) {
	repo := NewRepo(NewMemoryKV())
	ctx := context.Background()

	if err := repo.SaveHabits(ctx, nil); err != nil {
		t.Fatalf("SaveHabits: %v", err)
	}
	habits, err := repo.Habits(ctx)
	if err != nil {
		t.Fatalf("Habits: %v", err)
	}
	if len(habits) != 0 {
		t.Fatalf("len(habits)=%d, want 0", len(habits))
	}
}

func TestCorruptCollectionFallsBackToDefault(t *testing.T) {
	kv := NewMemoryKV()
	repo := NewRepo(kv, WithRepoClock(fixedNow))
	ctx := context.Background()

	if err := kv.Put(ctx, KeyUser, []byte("{not json")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	u, err := repo.User(ctx)
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	if u.ID != DefaultUserID || !u.CreatedAt.Equal(fixedNow()) {
		t.Fatalf("expected default user, got %+v", u)
	}
}

func TestAtomicRollsBackOnError(t *testing.T) {
	boom := errors.New("boom")
	for name, repo := range map[string]*Repo{
		"sqlite": newSQLiteRepo(t),
		"memory": NewRepo(NewMemoryKV()),
	} {
		ctx := context.Background()
		err := repo.Atomic(ctx, func(tx Collections) error {
			u, err := tx.User(ctx)
			if err != nil {
				return err
			}
			u.Points = 500
			if err := tx.SaveUser(ctx, u); err != nil {
				return err
			}
			if err := tx.SaveRewards(ctx, nil); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("%s: Atomic err=%v, want boom", name, err)
		}

		u, err := repo.User(ctx)
		if err != nil {
			t.Fatalf("%s: User: %v", name, err)
		}
		if u.Points != 0 {
			t.Fatalf("%s: points=%d after rollback, want 0", name, u.Points)
		}
		rewards, err := repo.Rewards(ctx)
		if err != nil {
			t.Fatalf("%s: Rewards: %v", name, err)
		}
		if len(rewards) != 2 {
			t.Fatalf("%s: rewards were overwritten by a rolled back unit", name)
		}
	}
}

func TestAtomicReadsItsOwnWrites(t *testing.T) {
	repo := NewRepo(NewMemoryKV())
	ctx := context.Background()

	err := repo.Atomic(ctx, func(tx Collections) error {
		u, err := tx.User(ctx)
		if err != nil {
			return err
		}
		u.Points = 7
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		again, err := tx.User(ctx)
		if err != nil {
			return err
		}
		if again.Points != 7 {
			t.Fatalf("points inside unit=%d, want 7", again.Points)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}
}
