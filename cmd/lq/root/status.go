package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newStatusCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, points, streak and active bonuses",
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
			u := ov.User
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconWizard, u.Name))
			fmt.Fprintln(out, ui.LabelValue("Level", u.Level))
			fmt.Fprintln(out, ui.LabelValue("Experience", fmt.Sprintf("%s %d/%d", ui.ProgressBar(u.Experience, u.NextLevelAt, 20), u.Experience, u.NextLevelAt)))
			fmt.Fprintln(out, ui.LabelValue("Points", ui.Gold.Render(fmt.Sprintf("%s %d", ui.IconPoints, u.Points))))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d days", ui.IconFire, u.StreakDays)))
			fmt.Fprintln(out, ui.LabelValue("Achievements", fmt.Sprintf("%d/%d", ov.Unlocked, ov.TotalAchievements)))
			if ov.GameState.CurrentWorld != "" {
				fmt.Fprintln(out, ui.LabelValue("World", ov.GameState.CurrentWorld))
			}
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconSparkle+" Bonuses right now"))
			printBonuses(out, ov.Bonuses)
			fmt.Fprintln(out, "")

			done := 0
			for _, h := range ov.Habits {
				if h.DoneToday {
					done++
				}
			}
			fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s Today: %d/%d habits", ui.IconHabit, done, len(ov.Habits))))
			for _, h := range ov.Habits {
				gain := ui.Muted.Render(fmt.Sprintf("(+%d now)", h.PointsIfDone))
				if h.DoneToday {
					gain = ""
				}
				fmt.Fprintf(out, "- %s %s %s %s\n", ui.CategoryIcon(h.Habit.Category), h.Habit.Name, ui.DoneText(h.DoneToday), gain)
			}
			return nil
		},
	}

	return cmd
}
