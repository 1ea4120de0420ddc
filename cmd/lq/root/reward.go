package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newRewardCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reward",
		Short: "Manage rewards",
	}
	cmd.AddCommand(newRewardAddCmd(e), newRewardListCmd(e))
	return cmd
}

func newRewardAddCmd(e *env) *cobra.Command {
	var desc string
	var cost int
	var category string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a reward",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := engine.ParseRewardCategory(category)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			r, err := svc.AddReward(ctx, engine.RewardInput{
				Name:        args[0],
				Description: desc,
				Cost:        cost,
				Category:    c,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"), ui.CategoryIcon(r.Category), r.Name,
				ui.Muted.Render(fmt.Sprintf("(cost %d, id %s)", r.Cost, shortID(r.ID))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().IntVarP(&cost, "cost", "p", 50, "Cost in points")
	cmd.Flags().StringVarP(&category, "category", "c", "entertainment", "Category (entertainment|food & drink|leisure|shopping|experience|other)")

	return cmd
}

func newRewardListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List rewards and what you can afford",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ov, err := svc.Overview(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Heading(ui.IconReward, "Rewards"), ui.Muted.Render(fmt.Sprintf("(balance %d)", ov.User.Points)))
			if len(ov.Rewards) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no rewards yet: lq reward add <name>)"))
				return nil
			}
			for _, r := range ov.Rewards {
				cost := ui.Muted.Render(fmt.Sprintf("%d", r.Cost))
				if ov.CanAfford(r) {
					cost = ui.Good.Render(fmt.Sprintf("%d", r.Cost))
				}
				fmt.Fprintf(out, "%s %s %s %s %s\n",
					ui.Muted.Render(shortID(r.ID)), ui.CategoryIcon(r.Category), r.Name, cost,
					ui.Muted.Render(fmt.Sprintf("(redeemed %d×)", len(r.RedeemedDates))))
			}
			return nil
		},
	}

	return cmd
}
