package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newHabitCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habit",
		Short: "Manage habits",
	}
	cmd.AddCommand(newHabitAddCmd(e), newHabitListCmd(e), newHabitEditCmd(e))
	return cmd
}

func newHabitAddCmd(e *env) *cobra.Command {
	var desc string
	var freq string
	var points int
	var category string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := engine.ParseFrequency(freq)
			if err != nil {
				return err
			}
			c, err := engine.ParseHabitCategory(category)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			h, err := svc.AddHabit(ctx, engine.HabitInput{
				Name:        args[0],
				Description: desc,
				Frequency:   f,
				Points:      points,
				Category:    c,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"), ui.CategoryIcon(h.Category), h.Name,
				ui.Muted.Render(fmt.Sprintf("(%s, %d points, id %s)", h.Frequency, h.Points, shortID(h.ID))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&freq, "freq", "f", "daily", "Frequency (daily|weekdays|weekly|monthly|custom)")
	cmd.Flags().IntVarP(&points, "points", "p", 10, "Base points per completion")
	cmd.Flags().StringVarP(&category, "category", "c", "wellness", "Category (wellness|health|productivity|learning|social|finance)")

	return cmd
}

func newHabitListCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with today's state",
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
			fmt.Fprintln(out, ui.Heading(ui.IconHabit, "Habits"))
			if len(ov.Habits) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no habits yet: lq habit add <name>)"))
				return nil
			}
			for _, h := range ov.Habits {
				streak := fmt.Sprintf("%s %d", ui.IconFire, h.Habit.Streak)
				if !h.StreakAlive && h.Habit.Streak > 0 {
					streak = ui.Warn.Render(streak + " at risk")
				}
				gain := ""
				if !h.DoneToday {
					gain = ui.Gold.Render(fmt.Sprintf("+%d", h.PointsIfDone))
				}
				fmt.Fprintf(out, "%s %s %s %s %s %s %s\n",
					ui.Muted.Render(shortID(h.Habit.ID)), ui.CategoryIcon(h.Habit.Category), h.Habit.Name,
					ui.Muted.Render("["+h.Habit.Frequency+"]"), streak, ui.DoneText(h.DoneToday), gain)
			}
			return nil
		},
	}

	return cmd
}

func newHabitEditCmd(e *env) *cobra.Command {
	var name, desc, freq, category string
	var points int

	cmd := &cobra.Command{
		Use:   "edit <habit>",
		Short: "Change a habit's name, description, frequency, points or category",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("habit id or name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var p engine.HabitPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("desc") {
				p.Description = &desc
			}
			if flags.Changed("freq") {
				f, err := engine.ParseFrequency(freq)
				if err != nil {
					return err
				}
				p.Frequency = &f
			}
			if flags.Changed("points") {
				p.Points = &points
			}
			if flags.Changed("category") {
				c, err := engine.ParseHabitCategory(category)
				if err != nil {
					return err
				}
				p.Category = &c
			}

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
			updated, err := svc.UpdateHabit(ctx, h.ID, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDone+" Updated"), updated.Name,
				ui.Muted.Render(fmt.Sprintf("(%s, %d points, %s)", updated.Frequency, updated.Points, updated.Category)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "New description")
	cmd.Flags().StringVarP(&freq, "freq", "f", "", "New frequency")
	cmd.Flags().IntVarP(&points, "points", "p", 0, "New base points")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")

	return cmd
}
