package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"lifequest/internal/engine"
	"lifequest/internal/ui"
)

func newPersonalizeCmd(e *env) *cobra.Command {
	var wake, sleep, focus, motivation, difficulty, reward string

	cmd := &cobra.Command{
		Use:   "personalize",
		Short: "Answer the Know Thyself questions to tune bonuses",
		Long: `Store your schedule and preferences.

Your wake and sleep times define personal bonus windows that replace the
default morning and evening windows. Difficulty and reward preferences set the
progressive load applied to every completion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := engine.PersonalizeInput{WakeTime: wake, SleepTime: sleep}
			var err error
			if in.FocusArea, err = engine.ParseFocusArea(focus); err != nil {
				return err
			}
			if in.Motivation, err = engine.ParseMotivation(motivation); err != nil {
				return err
			}
			if in.Difficulty, err = engine.ParseDifficultyPreference(difficulty); err != nil {
				return err
			}
			if in.Reward, err = engine.ParseRewardPreference(reward); err != nil {
				return err
			}

			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			u, unlocked, err := svc.Personalize(ctx, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Profile saved"))
			if u.ProgressiveLoad != nil {
				fmt.Fprintln(out, ui.LabelValue("Progressive load", fmt.Sprintf("difficulty %s, reward %s",
					ui.Multiplier(u.ProgressiveLoad.Difficulty), ui.Multiplier(u.ProgressiveLoad.Reward))))
			}
			if u.TimeContext != nil {
				for _, w := range u.TimeContext.OptimizedHours {
					fmt.Fprintf(out, "- %s %s %02d:00-%02d:00 %s\n", ui.IconClock, w.Type, w.Start, w.End, ui.Percent(w.Bonus))
				}
			}
			printUnlocked(out, unlocked)
			return nil
		},
	}

	cmd.Flags().StringVar(&wake, "wake", "07:00", "Wake time (HH:MM)")
	cmd.Flags().StringVar(&sleep, "sleep", "23:00", "Sleep time (HH:MM)")
	cmd.Flags().StringVar(&focus, "focus", "productivity", "Focus area (productivity|health|learning|wellness)")
	cmd.Flags().StringVar(&motivation, "motivation", "growth", "Motivation (achievement|growth|social|rewards)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "moderate", "Difficulty (easy|moderate|challenging)")
	cmd.Flags().StringVar(&reward, "reward", "balanced", "Reward preference (frequent|balanced|milestone)")

	return cmd
}
