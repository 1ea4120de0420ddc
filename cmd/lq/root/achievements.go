package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newAchievementsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "Show achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := svc.Achievements(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", ui.Heading(ui.IconTrophy, "Achievements"),
				ui.Muted.Render(fmt.Sprintf("(%d/%d)", engine.CountUnlocked(list), len(list))))
			for _, a := range list {
				if a.State.Unlocked {
					when := ""
					if a.State.UnlockedAt != nil {
						when = ui.Muted.Render(a.State.UnlockedAt.In(svc.Location()).Format("2006-01-02"))
					}
					fmt.Fprintf(out, "%s %s %s %s\n", a.Def.Icon, ui.Good.Render(a.Def.Title), ui.Muted.Render(a.Def.Description), when)
					continue
				}
				fmt.Fprintf(out, "%s %s %s %s %d/%d\n", ui.IconLock, a.Def.Title, ui.Muted.Render(a.Def.Description),
					ui.ProgressBar(a.State.Progress, a.Def.Threshold, 10), a.State.Progress, a.Def.Threshold)
			}
			return nil
		},
	}

	return cmd
}
