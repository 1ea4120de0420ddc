package engine

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"lifequest/internal/storage"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := &testClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	repo := storage.NewRepo(storage.NewSQLiteKV(db), storage.WithRepoClock(clock.Now))
	svc := NewService(repo, WithClock(clock.Now), WithLocation(time.UTC))
	return svc, clock
}

func newMemoryService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	repo := storage.NewRepo(storage.NewMemoryKV(), storage.WithRepoClock(clock.Now))
	return NewService(repo, WithClock(clock.Now), WithLocation(time.UTC)), clock
}

func mustUser(t *testing.T, svc *Service) storage.User {
	t.Helper()
	u, err := svc.store.User(context.Background())
	if err != nil {
		t.Fatalf("User: %v", err)
	}
	return u
}

func saveUser(t *testing.T, svc *Service, u storage.User) {
	t.Helper()
	if err := svc.store.SaveUser(context.Background(), u); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
}

func saveHabits(t *testing.T, svc *Service, habits []storage.Habit) {
	t.Helper()
	if err := svc.store.SaveHabits(context.Background(), habits); err != nil {
		t.Fatalf("SaveHabits: %v", err)
	}
}

func habitByID(t *testing.T, svc *Service, id string) storage.Habit {
	t.Helper()
	habits, err := svc.store.Habits(context.Background())
	if err != nil {
		t.Fatalf("Habits: %v", err)
	}
	for _, h := range habits {
		if h.ID == id {
			return h
		}
	}
	t.Fatalf("habit %s not found", id)
	return storage.Habit{}
}

const meditation = storage.SeedIDPrefix + "habit-1" // 10 points
const exercise = storage.SeedIDPrefix + "habit-2"   // 15 points

func TestFirstCompletionEarnsBasePoints(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	if !res.Completed || res.PointsAwarded != 10 {
		t.Fatalf("result=%+v, want completed with 10 points", res)
	}

	u := mustUser(t, svc)
	if u.Points != 10 || u.Experience != 10 || u.Level != 1 {
		t.Fatalf("user points=%d experience=%d level=%d, want 10/10/1", u.Points, u.Experience, u.Level)
	}
	h := habitByID(t, svc, meditation)
	if h.Streak != 1 {
		t.Fatalf("streak=%d, want 1", h.Streak)
	}
	if len(h.CompletedDates) != 1 || h.CompletedDates[0] != "2024-03-10" {
		t.Fatalf("completedDates=%v, want [2024-03-10]", h.CompletedDates)
	}
}

func TestSameDayCompletionIsNoop(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CompleteHabit(ctx, meditation); err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	before := mustUser(t, svc)
	beforeHabit := habitByID(t, svc, meditation)

	clock.t = clock.t.Add(3 * time.Hour)
	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("second CompleteHabit: %v", err)
	}
	if res.Completed {
		t.Fatalf("second completion on the same day was applied")
	}

	after := mustUser(t, svc)
	afterHabit := habitByID(t, svc, meditation)
	if after.Points != before.Points || after.Experience != before.Experience {
		t.Fatalf("user changed: before=%+v after=%+v", before, after)
	}
	if after.ChainReaction.Count != before.ChainReaction.Count {
		t.Fatalf("chain changed on a no-op: %d -> %d", before.ChainReaction.Count, after.ChainReaction.Count)
	}
	if afterHabit.Streak != beforeHabit.Streak || len(afterHabit.CompletedDates) != len(beforeHabit.CompletedDates) {
		t.Fatalf("habit changed: before=%+v after=%+v", beforeHabit, afterHabit)
	}
}

func TestLevelUpCarriesOverflow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := mustUser(t, svc)
	u.Experience = 95
	u.NextLevelAt = 100
	now := svc.Now()
	u.LastLogin = &now
	saveUser(t, svc, u)

	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	if !res.LevelUp {
		t.Fatalf("expected level up, got %+v", res)
	}
	u = mustUser(t, svc)
	if u.Level != 2 || u.NextLevelAt != 150 || u.Experience != 5 {
		t.Fatalf("level=%d nextLevelAt=%d experience=%d, want 2/150/5", u.Level, u.NextLevelAt, u.Experience)
	}
}

func TestGoalGradientDoublesReward(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created := svc.Now().Add(-30 * 24 * time.Hour)
	var habits []storage.Habit
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		h := storage.Habit{ID: "h-" + name, Name: name, Frequency: "Daily", Points: 10, CreatedAt: created}
		if i < 4 {
			h.CompletedDates = []string{"2024-03-01"}
		}
		habits = append(habits, h)
	}
	saveHabits(t, svc, habits)

	u := mustUser(t, svc)
	u.ProgressiveLoad = &storage.ProgressiveLoad{Difficulty: 1.0, Reward: 1.0}
	saveUser(t, svc, u)

	res, err := svc.CompleteHabit(ctx, "h-e")
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	if res.Bonuses.CompletionRatio != 0.8 || res.Bonuses.GoalGradient != 2.0 {
		t.Fatalf("bonuses=%+v, want ratio 0.8 multiplier 2.0", res.Bonuses)
	}
	if res.PointsAwarded != 20 {
		t.Fatalf("points=%d, want 20", res.PointsAwarded)
	}
}

func TestStreakGrowsDayOverDayAndResetsAfterGap(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CompleteHabit(ctx, meditation); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
		clock.t = clock.t.Add(24 * time.Hour)
	}
	if got := habitByID(t, svc, meditation).Streak; got != 3 {
		t.Fatalf("streak=%d, want 3", got)
	}
	if got := mustUser(t, svc).StreakDays; got != 3 {
		t.Fatalf("streakDays=%d, want 3", got)
	}

	clock.t = clock.t.Add(24 * time.Hour) // skip a day
	if _, err := svc.CompleteHabit(ctx, meditation); err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if got := habitByID(t, svc, meditation).Streak; got != 1 {
		t.Fatalf("streak after gap=%d, want 1", got)
	}
	if got := mustUser(t, svc).StreakDays; got != 1 {
		t.Fatalf("streakDays after gap=%d, want 1", got)
	}
}

func TestChainBonusAppliesToLaterSameDayCompletions(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	first, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.ChainCount != 1 || first.Bonuses.ChainBonus != 0 {
		t.Fatalf("first completion chain=%d bonus=%v, want 1/0", first.ChainCount, first.Bonuses.ChainBonus)
	}

	clock.t = clock.t.Add(5 * time.Minute)
	second, err := svc.CompleteHabit(ctx, exercise)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	// 15 * 1.0 (ratio 0.5 is not above the mid threshold) * 1.1 = 16.5.
	if second.PointsAwarded != 17 || second.ChainCount != 2 {
		t.Fatalf("second points=%d chain=%d, want 17/2", second.PointsAwarded, second.ChainCount)
	}

	clock.t = clock.t.Add(24 * time.Hour)
	third, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("third: %v", err)
	}
	if third.ChainCount != 1 || third.Bonuses.ChainBonus != 0 {
		t.Fatalf("chain after a day break=%d bonus=%v, want 1/0", third.ChainCount, third.Bonuses.ChainBonus)
	}
}

func TestChainCountStaysWithinBounds(t *testing.T) {
	svc, clock := newMemoryService(t)
	ctx := context.Background()

	var habits []storage.Habit
	for i := 0; i < 8; i++ {
		habits = append(habits, storage.Habit{ID: string(rune('a' + i)), Name: "h", Frequency: "Daily", Points: 5})
	}
	saveHabits(t, svc, habits)

	for _, h := range habits {
		clock.t = clock.t.Add(time.Minute)
		res, err := svc.CompleteHabit(ctx, h.ID)
		if err != nil {
			t.Fatalf("CompleteHabit(%s): %v", h.ID, err)
		}
		if res.ChainCount < 0 || res.ChainCount > MaxChainCount {
			t.Fatalf("chain count=%d out of bounds", res.ChainCount)
		}
	}
	if got := mustUser(t, svc).ChainReaction.Count; got != MaxChainCount {
		t.Fatalf("chain=%d, want %d", got, MaxChainCount)
	}
}

func TestUnknownHabitIsAnError(t *testing.T) {
	svc, _ := newMemoryService(t)
	_, err := svc.CompleteHabit(context.Background(), "nope")
	if !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("err=%v, want ErrHabitNotFound", err)
	}
}

func TestRedeemRequiresEnoughPoints(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	reward := storage.SeedIDPrefix + "reward-1" // cost 50

	u := mustUser(t, svc)
	u.Points = 49
	saveUser(t, svc, u)

	res, err := svc.RedeemReward(ctx, reward)
	if err != nil {
		t.Fatalf("RedeemReward: %v", err)
	}
	if res.Redeemed {
		t.Fatalf("redeemed with insufficient points")
	}
	if got := mustUser(t, svc).Points; got != 49 {
		t.Fatalf("points=%d after refused redemption, want 49", got)
	}

	u = mustUser(t, svc)
	u.Points = 120
	saveUser(t, svc, u)
	res, err = svc.RedeemReward(ctx, reward)
	if err != nil {
		t.Fatalf("RedeemReward: %v", err)
	}
	if !res.Redeemed || res.PointsAfter != 70 {
		t.Fatalf("result=%+v, want redeemed leaving 70", res)
	}
	if got := mustUser(t, svc).Points; got != 70 {
		t.Fatalf("points=%d, want 70", got)
	}
	rewards, err := svc.store.Rewards(ctx)
	if err != nil {
		t.Fatalf("Rewards: %v", err)
	}
	if len(rewards[0].RedeemedDates) != 1 {
		t.Fatalf("redeemedDates=%v, want one entry", rewards[0].RedeemedDates)
	}

	if _, err := svc.RedeemReward(ctx, "missing"); !errors.Is(err, ErrRewardNotFound) {
		t.Fatalf("err=%v, want ErrRewardNotFound", err)
	}
}

func TestAchievementsUnlockOnceAndStayUnlocked(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	found := false
	for _, a := range res.Unlocked {
		if a.ID == "habit-starter" {
			found = true
		}
	}
	if !found {
		t.Fatalf("habit-starter not unlocked: %+v", res.Unlocked)
	}

	// Remove every habit; the unlock must survive re-evaluation.
	saveHabits(t, svc, nil)
	clock.t = clock.t.Add(time.Hour)
	if _, err := svc.AddReward(ctx, RewardInput{Name: "Movie night", Cost: 40}); err != nil {
		t.Fatalf("AddReward: %v", err)
	}

	list, err := svc.Achievements(ctx)
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	for _, a := range list {
		switch a.Def.ID {
		case "habit-starter":
			if !a.State.Unlocked || a.State.Progress != 1 {
				t.Fatalf("habit-starter=%+v, want unlocked with progress 1", a.State)
			}
		case "reward-creator":
			if !a.State.Unlocked {
				t.Fatalf("reward-creator not unlocked after adding a custom reward")
			}
		case "habit-master":
			if a.State.Progress != 2 {
				t.Fatalf("habit-master progress=%d, want 2 (never decreases)", a.State.Progress)
			}
		}
	}

	gs, err := svc.store.GameState(ctx)
	if err != nil {
		t.Fatalf("GameState: %v", err)
	}
	if len(gs.Achievements) < 2 {
		t.Fatalf("gameState.achievements=%v, want unlocked ids mirrored", gs.Achievements)
	}
}

func TestAddHabitValidatesInput(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	if _, err := svc.AddHabit(ctx, HabitInput{Name: "  ", Points: 5}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := svc.AddHabit(ctx, HabitInput{Name: "Read", Points: 0}); err == nil {
		t.Fatalf("expected error for zero points")
	}
	h, err := svc.AddHabit(ctx, HabitInput{Name: " Read ", Points: 5, Frequency: FrequencyWeekly, Category: HabitCategoryLearning})
	if err != nil {
		t.Fatalf("AddHabit: %v", err)
	}
	if h.Name != "Read" || h.ID == "" || storage.IsSeeded(h.ID) {
		t.Fatalf("habit=%+v", h)
	}

	found, err := svc.FindHabit(ctx, "read")
	if err != nil {
		t.Fatalf("FindHabit by name: %v", err)
	}
	if found.ID != h.ID {
		t.Fatalf("FindHabit returned %s, want %s", found.ID, h.ID)
	}
	if _, err := svc.FindHabit(ctx, h.ID[:8]); err != nil {
		t.Fatalf("FindHabit by prefix: %v", err)
	}
	var amb AmbiguousError
	if _, err := svc.FindHabit(ctx, storage.SeedIDPrefix); !errors.As(err, &amb) {
		t.Fatalf("err=%v, want AmbiguousError", err)
	}
}

func TestUpdateHabitKeepsHistory(t *testing.T) {
	svc, _ := newMemoryService(t)
	ctx := context.Background()

	if _, err := svc.CompleteHabit(ctx, meditation); err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	pts := 25
	name := "Evening Meditation"
	h, err := svc.UpdateHabit(ctx, meditation, HabitPatch{Name: &name, Points: &pts})
	if err != nil {
		t.Fatalf("UpdateHabit: %v", err)
	}
	if h.Points != 25 || h.Name != name || h.Streak != 1 || len(h.CompletedDates) != 1 {
		t.Fatalf("habit=%+v", h)
	}
	bad := 0
	if _, err := svc.UpdateHabit(ctx, meditation, HabitPatch{Points: &bad}); err == nil {
		t.Fatalf("expected error for zero points")
	}
}

func TestRolloverDecaysStaleState(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CompleteHabit(ctx, meditation); err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}

	clock.t = clock.t.Add(24 * time.Hour)
	res, err := svc.Rollover(ctx)
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if len(res.HabitsReset) != 0 || res.StreakDays || !res.ChainCleared {
		t.Fatalf("day after: %+v, want only the chain cleared", res)
	}

	clock.t = clock.t.Add(24 * time.Hour)
	res, err = svc.Rollover(ctx)
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if len(res.HabitsReset) != 1 || !res.StreakDays {
		t.Fatalf("two days after: %+v, want habit streak and streakDays reset", res)
	}
	if got := habitByID(t, svc, meditation).Streak; got != 0 {
		t.Fatalf("streak=%d, want 0", got)
	}

	res, err = svc.Rollover(ctx)
	if err != nil {
		t.Fatalf("Rollover: %v", err)
	}
	if res.Changed() {
		t.Fatalf("second rollover on the same day changed %+v", res)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newMemoryService(t)
	ctx := context.Background()
	if _, err := src.CompleteHabit(ctx, exercise); err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	bundle, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	dst, _ := newTestService(t)
	if err := dst.Import(ctx, bundle); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if got := mustUser(t, dst).Points; got != 15 {
		t.Fatalf("imported points=%d, want 15", got)
	}
	if got := habitByID(t, dst, exercise).Streak; got != 1 {
		t.Fatalf("imported streak=%d, want 1", got)
	}

	if err := dst.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if got := mustUser(t, dst).Points; got != 0 {
		t.Fatalf("points after reset=%d, want 0", got)
	}

	list, err := dst.Achievements(ctx)
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	var want []string
	for _, a := range list {
		if a.State.Unlocked {
			want = append(want, a.Def.ID)
		}
	}
	if len(want) == 0 {
		t.Fatalf("no achievement survived the reset")
	}
	gs, err := dst.store.GameState(ctx)
	if err != nil {
		t.Fatalf("GameState: %v", err)
	}
	if !slices.Equal(gs.Achievements, want) {
		t.Fatalf("gameState.achievements=%v after reset, want %v", gs.Achievements, want)
	}
}

func TestImportCollapsesSameDayCompletions(t *testing.T) {
	src, _ := newMemoryService(t)
	ctx := context.Background()
	bundle, err := src.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	for i := range bundle.Habits {
		if bundle.Habits[i].ID == meditation {
			bundle.Habits[i].CompletedDates = []string{
				"2024-03-01T08:00:00Z",
				"2024-03-01T20:00:00Z",
				"2024-03-01",
				"not a date",
				"2024-03-02",
			}
		}
	}

	dst, _ := newTestService(t)
	if err := dst.Import(ctx, bundle); err != nil {
		t.Fatalf("Import: %v", err)
	}
	got := habitByID(t, dst, meditation).CompletedDates
	want := []string{"2024-03-01", "2024-03-02"}
	if !slices.Equal(got, want) {
		t.Fatalf("completedDates=%v, want %v", got, want)
	}
}

func TestRepeatCompletionReportsLiveChain(t *testing.T) {
	svc, clock := newMemoryService(t)
	ctx := context.Background()

	habits, err := svc.store.Habits(ctx)
	if err != nil {
		t.Fatalf("Habits: %v", err)
	}
	for i := range habits {
		if habits[i].ID == meditation {
			habits[i].CompletedDates = []string{DayKey(clock.t, time.UTC)}
		}
	}
	saveHabits(t, svc, habits)

	yesterday := clock.t.AddDate(0, 0, -1)
	u := mustUser(t, svc)
	u.ChainReaction = storage.ChainReaction{Count: 3, LastCompletedAt: &yesterday}
	saveUser(t, svc, u)

	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	if res.Completed {
		t.Fatalf("completion recorded twice on one day")
	}
	if res.ChainCount != 0 {
		t.Fatalf("chain=%d for a chain that ended yesterday, want 0", res.ChainCount)
	}
}

func TestOverviewPreviewsPoints(t *testing.T) {
	svc, clock := newMemoryService(t)
	ctx := context.Background()
	clock.t = time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC) // morning window

	ov, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Bonuses.Time.Bonus != 0.25 {
		t.Fatalf("time bonus=%v, want 0.25", ov.Bonuses.Time.Bonus)
	}
	for _, h := range ov.Habits {
		if h.Habit.ID == meditation && h.PointsIfDone != 13 {
			t.Fatalf("meditation preview=%d, want 13", h.PointsIfDone)
		}
	}
	if ov.TotalAchievements != len(AchievementDefs()) {
		t.Fatalf("total achievements=%d", ov.TotalAchievements)
	}
}

func TestCompletionLogUsesUserLevelField(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	svc, _ := newMemoryService(t)
	if _, err := svc.CompleteHabit(context.Background(), meditation); err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	for _, e := range hook.AllEntries() {
		if e.Message != "habit completed" {
			continue
		}
		if got, ok := e.Data["user_level"]; !ok || got != 1 {
			t.Fatalf("user_level=%v, want 1", got)
		}
		if _, ok := e.Data["level"]; ok {
			t.Fatalf("entry carries a level field that clashes with the log level")
		}
		return
	}
	t.Fatalf("no habit completed entry logged")
}
