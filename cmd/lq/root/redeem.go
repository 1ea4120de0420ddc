package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newRedeemCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem <reward>",
		Short: "Spend points on a reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("reward id or name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := svc.FindReward(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := svc.RedeemReward(ctx, r.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Redeemed {
				fmt.Fprintf(out, "%s %s %s\n", ui.Warn.Render(ui.IconWarn+" Not enough points for"), res.RewardName,
					ui.Muted.Render(fmt.Sprintf("(have %d, need %d)", res.PointsBefore, res.Cost)))
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconReward+" Redeemed"), res.RewardName,
				ui.Muted.Render(fmt.Sprintf("(-%d, %d left)", res.Cost, res.PointsAfter)))
			printUnlocked(out, res.Unlocked)
			return nil
		},
	}

	return cmd
}
