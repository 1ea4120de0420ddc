package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/ui"
)

func newAdventureCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adventure",
		Short: "Show the world map and quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			worlds, err := svc.Adventure(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconMap, "Adventure"))
			for _, st := range worlds {
				w := st.World
				if !st.Discovered {
					fmt.Fprintf(out, "%s %s %s\n", ui.IconLock, ui.Muted.Render(w.Name), ui.Muted.Render(fmt.Sprintf("(unlocks at level %d)", w.UnlockLevel)))
					continue
				}
				title := ui.H2.Render(w.Name)
				if st.Current {
					title += " " + ui.Gold.Render("(you are here)")
				}
				fmt.Fprintf(out, "%s %s\n", title, ui.Muted.Render("- "+w.Description))
				for _, q := range w.Quests {
					mark := "[ ]"
					if st.QuestsDone[q.ID] {
						mark = ui.Good.Render("[x]")
					}
					fmt.Fprintf(out, "  %s %s %s %s\n", mark, q.Title, ui.Muted.Render(q.Task),
						ui.Muted.Render(fmt.Sprintf("(%d points, lq quest %s)", q.Points, q.ID)))
				}
			}
			return nil
		},
	}

	return cmd
}

func newQuestCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest <quest_id>",
		Short: "Complete an adventure quest",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("quest_id is required")
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

			res, err := svc.CompleteQuest(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Completed {
				fmt.Fprintf(out, "%s %s\n", ui.Muted.Render("Quest already completed:"), res.Quest.Title)
				return nil
			}
			extra := ""
			if res.StreakBonus > 0 {
				extra = ui.Muted.Render(fmt.Sprintf("(incl. %d streak bonus)", res.StreakBonus))
			}
			fmt.Fprintf(out, "%s %s %s %s\n", ui.Good.Render(ui.IconScroll+" Quest complete:"), res.Quest.Title,
				ui.Gold.Render(fmt.Sprintf("+%d points", res.PointsAwarded)), extra)
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

func newTravelCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "travel <world>",
		Short: "Move to a discovered world",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("world is required")
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

			w, err := svc.Travel(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconMap+" Travelled to"), w.Name)
			return nil
		},
	}

	return cmd
}
