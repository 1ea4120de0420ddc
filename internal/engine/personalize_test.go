package engine

import (
	"context"
	"testing"
	"time"
)

func TestLoadForPreferences(t *testing.T) {
	cases := []struct {
		d              DifficultyPreference
		r              RewardPreference
		wantDifficulty float64
		wantReward     float64
	}{
		{DifficultyEasy, RewardFrequent, 1.0, 1.0},
		{DifficultyEasy, RewardBalanced, 1.0, 1.0},
		{DifficultyModerate, RewardMilestone, 1.2, 1.4},
		{DifficultyChallenging, RewardFrequent, 1.5, 1.4},
		{DifficultyChallenging, RewardMilestone, 1.5, 1.7},
	}
	for _, c := range cases {
		got := LoadForPreferences(c.d, c.r)
		if got.Difficulty != c.wantDifficulty || got.Reward != c.wantReward {
			t.Fatalf("LoadForPreferences(%s,%s)=%+v, want %v/%v", c.d, c.r, got, c.wantDifficulty, c.wantReward)
		}
	}
}

func TestWindowsForSchedule(t *testing.T) {
	w := WindowsForSchedule(7, 23)
	if len(w) != 2 {
		t.Fatalf("windows=%+v, want 2", w)
	}
	if w[0].Start != 8 || w[0].End != 10 || w[0].Bonus != 0.2 {
		t.Fatalf("productivity window=%+v, want [8,10) 0.2", w[0])
	}
	if w[1].Start != 14 || w[1].End != 16 || w[1].Bonus != 0.15 {
		t.Fatalf("focus window=%+v, want [14,16) 0.15", w[1])
	}

	// A short day cuts the focus window at bedtime.
	w = WindowsForSchedule(7, 15)
	if len(w) != 2 || w[1].Start != 14 || w[1].End != 15 {
		t.Fatalf("windows=%+v, want focus window clipped to [14,15)", w)
	}

	w = WindowsForSchedule(7, 12)
	if len(w) != 1 {
		t.Fatalf("windows=%+v, want focus window dropped", w)
	}
}

func TestPersonalizeStoresSettingsAndUnlocksBadge(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	u, unlocked, err := svc.Personalize(ctx, PersonalizeInput{
		WakeTime:   "07:00",
		SleepTime:  "23:00",
		FocusArea:  FocusHealth,
		Motivation: MotivationAchievement,
		Difficulty: DifficultyModerate,
		Reward:     RewardMilestone,
	})
	if err != nil {
		t.Fatalf("Personalize: %v", err)
	}
	if u.ProgressiveLoad == nil || u.ProgressiveLoad.Reward != 1.4 {
		t.Fatalf("progressiveLoad=%+v, want reward 1.4", u.ProgressiveLoad)
	}
	got := false
	for _, a := range unlocked {
		if a.ID == "wizard-graduate" {
			got = true
		}
	}
	if !got {
		t.Fatalf("wizard-graduate not unlocked: %+v", unlocked)
	}

	// 08:30 is inside the productivity window: 10 * 1.4 * 1.2 = 16.8.
	clock.t = time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	res, err := svc.CompleteHabit(ctx, meditation)
	if err != nil {
		t.Fatalf("CompleteHabit: %v", err)
	}
	if res.Bonuses.Time.Bonus != 0.2 || res.PointsAwarded != 17 {
		t.Fatalf("bonus=%v points=%d, want 0.2/17", res.Bonuses.Time.Bonus, res.PointsAwarded)
	}

	if _, _, err := svc.Personalize(ctx, PersonalizeInput{WakeTime: "late", SleepTime: "23:00"}); err == nil {
		t.Fatalf("expected error for a bad wake time")
	}
}
