package engine

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

type QuestDef struct {
	ID          string
	Title       string
	Description string
	Task        string
	Points      int
	Category    HabitCategory
}

// World is an adventure area that opens once the user reaches UnlockLevel.
type World struct {
	Key         string
	Name        string
	Description string
	UnlockLevel int
	Quests      []QuestDef
}

func builtinWorlds() []World {
	return []World{
		{
			Key:         "forest",
			Name:        "Enchanted Forest",
			Description: "A mystical forest filled with ancient wisdom",
			UnlockLevel: 0,
			Quests: []QuestDef{
				{
					ID:          "forest-1",
					Title:       "Meditation Grove",
					Description: "Find inner peace by completing a short meditation",
					Task:        "Take 3 deep breaths and focus on your breathing for 30 seconds",
					Points:      15,
					Category:    HabitCategoryWellness,
				},
				{
					ID:          "forest-2",
					Title:       "Knowledge Tree",
					Description: "Absorb knowledge from the ancient tree",
					Task:        "Write down one thing you learned today",
					Points:      20,
					Category:    HabitCategoryLearning,
				},
			},
		},
		{
			Key:         "mountains",
			Name:        "Mystic Mountains",
			Description: "Challenging peaks that test your resolve",
			UnlockLevel: 2,
			Quests: []QuestDef{
				{
					ID:          "mountain-1",
					Title:       "Summit Challenge",
					Description: "Reach the peak through perseverance",
					Task:        "Do 10 push-ups or a 1-minute plank",
					Points:      25,
					Category:    HabitCategoryHealth,
				},
				{
					ID:          "mountain-2",
					Title:       "Eagle's Vision",
					Description: "Gain clarity from the mountain top",
					Task:        "Set one clear goal for tomorrow",
					Points:      20,
					Category:    HabitCategoryProductivity,
				},
			},
		},
		{
			Key:         "ocean",
			Name:        "Serene Ocean",
			Description: "Vast waters of creativity and reflection",
			UnlockLevel: 4,
			Quests: []QuestDef{
				{
					ID:          "ocean-1",
					Title:       "Tide Pools of Creativity",
					Description: "Discover creative inspiration in the pools",
					Task:        "Sketch or write something creative for 5 minutes",
					Points:      30,
					Category:    HabitCategoryLearning,
				},
				{
					ID:          "ocean-2",
					Title:       "Ocean Cleanse",
					Description: "Purify your space like the ocean cleanses shores",
					Task:        "Tidy up your immediate surroundings for 2 minutes",
					Points:      15,
					Category:    HabitCategoryProductivity,
				},
			},
		},
	}
}

func Worlds() []World { return builtinWorlds() }

func findWorld(key string) (World, bool) {
	k := strings.TrimSpace(strings.ToLower(key))
	for _, w := range builtinWorlds() {
		if w.Key == k || strings.EqualFold(w.Name, key) {
			return w, true
		}
	}
	return World{}, false
}

func findQuest(id string) (QuestDef, World, bool) {
	id = strings.TrimSpace(strings.ToLower(id))
	for _, w := range builtinWorlds() {
		for _, q := range w.Quests {
			if q.ID == id {
				return q, w, true
			}
		}
	}
	return QuestDef{}, World{}, false
}

// discoverWorlds adds every world whose unlock level the user has reached.
func discoverWorlds(gs storage.GameState, level int) (storage.GameState, []World) {
	var found []World
	for _, w := range builtinWorlds() {
		if level < w.UnlockLevel || slices.Contains(gs.WorldsDiscovered, w.Key) {
			continue
		}
		gs.WorldsDiscovered = append(gs.WorldsDiscovered, w.Key)
		found = append(found, w)
	}
	if gs.CurrentWorld == "" {
		gs.CurrentWorld = storage.DefaultWorld
	}
	return gs, found
}

func canEnter(gs storage.GameState, w World) error {
	if !slices.Contains(gs.WorldsDiscovered, w.Key) {
		return GateError{Feature: w.Name, RequiredLevel: w.UnlockLevel}
	}
	return nil
}

// QuestStreakBonus is the extra reward a quest earns from the activity streak.
func QuestStreakBonus(points, streakDays int, rate float64) int {
	if points <= 0 || streakDays <= 0 || rate <= 0 {
		return 0
	}
	return int(math.Floor(float64(streakDays) * rate * float64(points)))
}

type QuestResult struct {
	Quest QuestDef
	World World

	// Completed is false when the quest was already done before.
	Completed     bool
	PointsAwarded int
	StreakBonus   int
	LevelBefore   int
	LevelAfter    int
	LevelUp       bool

	Unlocked   []storage.Achievement
	Discovered []World
}

// CompleteQuest finishes a quest in a discovered world once. Its points plus
// the streak bonus count as both spendable points and experience.
func (s *Service) CompleteQuest(ctx context.Context, questID string) (*QuestResult, error) {
	q, w, ok := findQuest(questID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrQuestNotFound, questID)
	}
	now := s.now()
	res := &QuestResult{Quest: q, World: w}

	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		gs, err := tx.GameState(ctx)
		if err != nil {
			return err
		}
		gs, _ = discoverWorlds(gs, u.Level)
		if err := canEnter(gs, w); err != nil {
			return err
		}
		if slices.Contains(gs.QuestsCompleted, q.ID) {
			return nil
		}

		res.LevelBefore, res.LevelAfter = u.Level, u.Level
		bonus := QuestStreakBonus(q.Points, u.StreakDays, s.tuning.QuestStreakRate)
		lvl := ApplyExperience(&u, q.Points+bonus, s.tuning.Leveling.Growth)
		gs.QuestsCompleted = append(gs.QuestsCompleted, q.ID)
		gs.LastPlayed = now

		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		if err := tx.SaveGameState(ctx, gs); err != nil {
			return err
		}
		res.Completed = true
		res.PointsAwarded = q.Points + bonus
		res.StreakBonus = bonus
		res.LevelAfter = lvl.LevelAfter
		res.LevelUp = lvl.Leveled()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.Completed {
		return res, nil
	}

	log.WithFields(log.Fields{"quest": q.ID, "points": res.PointsAwarded, "user_level": res.LevelAfter}).Info("quest completed")

	post, err := s.afterCommit(ctx)
	if err != nil {
		return res, err
	}
	res.Unlocked = post.Unlocked
	res.Discovered = post.Discovered
	return res, nil
}

// Travel moves the adventurer to a discovered world.
func (s *Service) Travel(ctx context.Context, worldKey string) (*World, error) {
	w, ok := findWorld(worldKey)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWorldNotFound, worldKey)
	}
	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		gs, err := tx.GameState(ctx)
		if err != nil {
			return err
		}
		gs, _ = discoverWorlds(gs, u.Level)
		if err := canEnter(gs, w); err != nil {
			return err
		}
		gs.CurrentWorld = w.Key
		gs.LastPlayed = s.now()
		return tx.SaveGameState(ctx, gs)
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// WorldStatus is a world as the adventure map shows it.
type WorldStatus struct {
	World      World
	Discovered bool
	Current    bool
	QuestsDone map[string]bool
}

func (s *Service) Adventure(ctx context.Context) ([]WorldStatus, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	gs, _ := discoverWorlds(snap.GameState, snap.User.Level)
	var out []WorldStatus
	for _, w := range builtinWorlds() {
		st := WorldStatus{
			World:      w,
			Discovered: slices.Contains(gs.WorldsDiscovered, w.Key),
			Current:    gs.CurrentWorld == w.Key,
			QuestsDone: map[string]bool{},
		}
		for _, q := range w.Quests {
			st.QuestsDone[q.ID] = slices.Contains(gs.QuestsCompleted, q.ID)
		}
		out = append(out, st)
	}
	return out, nil
}
