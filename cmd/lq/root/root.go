package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"lifequest/internal/config"
	"lifequest/internal/engine"
	"lifequest/internal/tuning"
	"lifequest/internal/ui"
)

const Version = "0.1.0"

// env is filled by the root command's pre-run hook before any subcommand runs.
type env struct {
	cfg    *config.Config
	tuning tuning.Tuning
}

func newRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "lq",
		Short:         "LifeQuest: habits, rewards and a little adventure",
		Long:          "LifeQuest is a local-first habit tracker with an RPG economy: complete habits to earn points and experience, spend points on rewards.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup(cmd.ErrOrStderr())
		},
	}
	cmd.Version = Version
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.AddCommand(
		newStatusCmd(e),
		newHabitCmd(e),
		newDoCmd(e),
		newRewardCmd(e),
		newRedeemCmd(e),
		newAchievementsCmd(e),
		newAdventureCmd(e),
		newQuestCmd(e),
		newTravelCmd(e),
		newPersonalizeCmd(e),
		newExportCmd(e),
		newImportCmd(e),
		newResetCmd(e),
		newRolloverCmd(e),
		newDaemonCmd(e),
		newBoardCmd(e),
	)
	return cmd
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func renderError(err error) string {
	var gate engine.GateError
	if errors.As(err, &gate) {
		return ui.Warn.Render(ui.IconLock + " " + err.Error())
	}
	return ui.Bad.Render(ui.IconError + " " + err.Error())
}

func (e *env) setup(logOut io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	e.cfg = cfg

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	log.SetOutput(logOut)
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("config: invalid LOG_LEVEL %q", cfg.LogLevel)
	}
	log.SetLevel(level)

	e.tuning = tuning.Default()
	if cfg.TuningPath != "" {
		t, err := tuning.Load(cfg.TuningPath)
		if err != nil {
			return err
		}
		e.tuning = t
		log.WithField("path", cfg.TuningPath).Debug("tuning loaded")
	}
	return nil
}
