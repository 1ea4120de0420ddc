package engine

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"lifequest/internal/storage"
)

type RedeemResult struct {
	RewardID   string
	RewardName string

	// Redeemed is false when the balance did not cover the cost; nothing was
	// written in that case.
	Redeemed     bool
	Cost         int
	PointsBefore int
	PointsAfter  int

	Unlocked []storage.Achievement
}

func rewardIndex(rewards []storage.Reward, id string) int {
	for i, r := range rewards {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// RedeemReward spends points on a reward when the balance covers its cost.
func (s *Service) RedeemReward(ctx context.Context, rewardID string) (*RedeemResult, error) {
	now := s.now()
	res := &RedeemResult{RewardID: rewardID}

	err := s.store.Atomic(ctx, func(tx storage.Collections) error {
		u, err := s.loadUser(ctx, tx)
		if err != nil {
			return err
		}
		rewards, err := tx.Rewards(ctx)
		if err != nil {
			return err
		}
		idx := rewardIndex(rewards, rewardID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrRewardNotFound, rewardID)
		}
		r := rewards[idx]
		res.RewardName = r.Name
		res.Cost = r.Cost
		res.PointsBefore, res.PointsAfter = u.Points, u.Points

		if r.Cost < 0 || u.Points < r.Cost {
			return nil
		}

		u.Points -= r.Cost
		s.markActive(&u, now)
		r.RedeemedDates = append(append([]time.Time(nil), r.RedeemedDates...), now)
		updated := append([]storage.Reward(nil), rewards...)
		updated[idx] = r

		if err := tx.SaveRewards(ctx, updated); err != nil {
			return err
		}
		if err := tx.SaveUser(ctx, u); err != nil {
			return err
		}
		res.Redeemed = true
		res.PointsAfter = u.Points
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.Redeemed {
		log.WithFields(log.Fields{"reward": rewardID, "points": res.PointsBefore, "cost": res.Cost}).
			Debug("not enough points to redeem")
		return res, nil
	}

	log.WithFields(log.Fields{"reward": rewardID, "cost": res.Cost, "points": res.PointsAfter}).Info("reward redeemed")

	post, err := s.afterCommit(ctx)
	if err != nil {
		return res, err
	}
	res.Unlocked = post.Unlocked
	return res, nil
}
