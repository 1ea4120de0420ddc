package root

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lifequest/internal/jobs"
	"lifequest/internal/ui"
)

func newRolloverCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollover",
		Short: "Decay lapsed streaks and yesterday's chain now",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Rollover(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Changed() {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to decay."))
				return nil
			}
			if len(res.HabitsReset) > 0 {
				fmt.Fprintf(out, "%s %d habit streak(s)\n", ui.Warn.Render("Reset"), len(res.HabitsReset))
			}
			if res.StreakDays {
				fmt.Fprintln(out, ui.Warn.Render("Daily streak reset"))
			}
			if res.ChainCleared {
				fmt.Fprintln(out, ui.Muted.Render("Chain reaction cleared"))
			}
			return nil
		},
	}

	return cmd
}

func newDaemonCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the daily rollover on a schedule until interrupted",
		Long:  "Run the rollover once, then on LQ_ROLLOVER_SCHEDULE (cron syntax, default midnight) in LQ_TIMEZONE.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := e.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sched := jobs.NewScheduler(svc, e.cfg.RolloverSchedule, svc.Location())
			if err := sched.Start(ctx); err != nil {
				return err
			}
			defer sched.Stop()

			log.Info("daemon running")
			<-ctx.Done()
			log.Info("daemon stopping")
			return nil
		},
	}

	return cmd
}
