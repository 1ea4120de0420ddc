package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newDoCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <habit>",
		Short: "Complete a habit for today",
		Long: `Complete a habit for today. The habit may be given by id, id prefix or name.

Points earned = base points × goal gradient × progressive load × (1 + time bonus + chain bonus).
Completing the same habit twice on one day does nothing.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit id or name is required")
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

			h, err := svc.FindHabit(ctx, args[0])
			if err != nil {
				return err
			}
			res, err := svc.CompleteHabit(ctx, h.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Completed {
				fmt.Fprintf(out, "%s %s\n", ui.Muted.Render("Already done today:"), res.HabitName)
				return nil
			}

			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Completed"), res.HabitName,
				ui.Gold.Render(fmt.Sprintf("+%d points", res.PointsAwarded)))
			printBonuses(out, res.Bonuses)
			fmt.Fprintf(out, "%s %d   %s %d/%d\n", ui.Key.Render(ui.IconFire+" Streak:"), res.Streak,
				ui.Key.Render(ui.IconChain+" Chain:"), res.ChainCount, engine.MaxChainCount)
			if res.LevelUp {
				printLevelUp(out, res.LevelBefore, res.LevelAfter)
			}
			printUnlocked(out, res.Unlocked)
			printDiscovered(out, res.Discovered)
			return nil
		},
	}

	return cmd
}
