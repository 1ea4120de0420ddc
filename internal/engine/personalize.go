package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

// PersonalizeInput carries the Know Thyself answers.
type PersonalizeInput struct {
	WakeTime   string // HH:MM
	SleepTime  string // HH:MM
	FocusArea  FocusArea
	Motivation MotivationType
	Difficulty DifficultyPreference
	Reward     RewardPreference
}

const (
	productivityWindowOffset = 1
	focusWindowOffset        = 7
	windowLength             = 2
	productivityBonus        = 0.2
	focusBonus               = 0.15
)

// parseClock returns the hour of an HH:MM (or bare HH) value.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, _, _ := strings.Cut(s, ":")
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q (want HH:MM)", s)
	}
	return h, nil
}

// LoadForPreferences maps the difficulty and reward answers to a progressive
// load.
func LoadForPreferences(d DifficultyPreference, r RewardPreference) storage.ProgressiveLoad {
	var load storage.ProgressiveLoad
	switch d {
	case DifficultyEasy:
		load = storage.ProgressiveLoad{Difficulty: 1.0, Reward: 1.0}
	case DifficultyChallenging:
		load = storage.ProgressiveLoad{Difficulty: 1.5, Reward: 1.5}
	default:
		load = storage.ProgressiveLoad{Difficulty: 1.2, Reward: 1.2}
	}
	switch r {
	case RewardFrequent:
		load.Reward -= 0.1
	case RewardMilestone:
		load.Reward += 0.2
	}
	load.Reward = math.Round(math.Min(MaxLoadReward, math.Max(1.0, load.Reward))*100) / 100
	return load
}

// WindowsForSchedule derives the personal bonus windows from wake and sleep
// hours. Windows are cut off at bedtime; a window that would start after
// bedtime is dropped.
func WindowsForSchedule(wake, sleep int) []storage.TimeWindow {
	awake := func(h int) bool {
		if sleep > wake {
			return h >= wake && h < sleep
		}
		// Sleep past midnight.
		return h >= wake || h < sleep
	}
	candidates := []storage.TimeWindow{
		{Start: wake + productivityWindowOffset, Bonus: productivityBonus, Type: "productivity"},
		{Start: wake + focusWindowOffset, Bonus: focusBonus, Type: "focus"},
	}
	var out []storage.TimeWindow
	for _, w := range candidates {
		if w.Start > 23 || !awake(w.Start) {
			continue
		}
		w.End = w.Start + windowLength
		for h := w.Start + 1; h < w.End; h++ {
			if h > 23 || !awake(h) {
				w.End = h
				break
			}
		}
		out = append(out, w)
	}
	return out
}

// Personalize stores the Know Thyself answers and the settings derived from
// them.
func (s *Service) Personalize(ctx context.Context, in PersonalizeInput) (*storage.User, []storage.Achievement, error) {
	wake, err := parseClock(in.WakeTime)
	if err != nil {
		return nil, nil, err
	}
	sleep, err := parseClock(in.SleepTime)
	if err != nil {
		return nil, nil, err
	}
	if wake == sleep {
		return nil, nil, fmt.Errorf("wake and sleep time must differ")
	}
	focus := in.FocusArea
	if !focus.IsValid() {
		focus = FocusProductivity
	}
	motivation := in.Motivation
	if !motivation.IsValid() {
		motivation = MotivationGrowth
	}
	difficulty := parseStoredDifficultyPreference(string(in.Difficulty))
	reward := parseStoredRewardPreference(string(in.Reward))

	var out storage.User
	err = s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		u.Preferences = &storage.Preferences{
			WakeTime:             strings.TrimSpace(in.WakeTime),
			SleepTime:            strings.TrimSpace(in.SleepTime),
			FocusArea:            string(focus),
			Motivation:           string(motivation),
			DifficultyPreference: string(difficulty),
			RewardPreference:     string(reward),
		}
		load := LoadForPreferences(difficulty, reward)
		u.ProgressiveLoad = &load
		u.TimeContext = &storage.TimeContext{
			WakeTime:       u.Preferences.WakeTime,
			SleepTime:      u.Preferences.SleepTime,
			OptimizedHours: WindowsForSchedule(wake, sleep),
		}
		out = u
		return tx.SaveUser(ctx, u)
	})
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{"difficulty": difficulty, "reward": reward}).Info("personalization saved")

	post, err := s.afterCommit(ctx)
	if err != nil {
		return &out, nil, err
	}
	return &out, post.Unlocked, nil
}

// ParseFocusArea and friends accept the wizard answers case-insensitively.
func ParseFocusArea(input string) (FocusArea, error) {
	f := FocusArea(strings.TrimSpace(strings.ToLower(input)))
	if f == "" {
		return FocusProductivity, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("invalid focus area: %q", input)
	}
	return f, nil
}

func ParseMotivation(input string) (MotivationType, error) {
	m := MotivationType(strings.TrimSpace(strings.ToLower(input)))
	if m == "" {
		return MotivationGrowth, nil
	}
	if !m.IsValid() {
		return "", fmt.Errorf("invalid motivation: %q", input)
	}
	return m, nil
}

func ParseDifficultyPreference(input string) (DifficultyPreference, error) {
	d := DifficultyPreference(strings.TrimSpace(strings.ToLower(input)))
	if d == "" {
		return DifficultyModerate, nil
	}
	if !d.IsValid() {
		return "", fmt.Errorf("invalid difficulty preference: %q", input)
	}
	return d, nil
}

func ParseRewardPreference(input string) (RewardPreference, error) {
	r := RewardPreference(strings.TrimSpace(strings.ToLower(input)))
	if r == "" {
		return RewardBalanced, nil
	}
	if !r.IsValid() {
		return "", fmt.Errorf("invalid reward preference: %q", input)
	}
	return r, nil
}
