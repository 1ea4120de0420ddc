package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"lifequest/internal/engine"
)

// RunBoard opens the dashboard on out. Lapsed streaks and a stale chain are
// decayed first so the board never shows yesterday's bonuses.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	m := prepareBoard(ctx, svc)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if bm, ok := final.(boardModel); ok && bm.err != nil {
		return bm.err
	}
	return nil
}

func prepareBoard(ctx context.Context, svc *engine.Service) boardModel {
	m := newBoardModel(ctx, svc)
	res, err := svc.Rollover(ctx)
	if err != nil {
		log.WithError(err).Warn("board: rollover failed")
		m.notice = "Rollover failed: " + err.Error()
		return m
	}
	if res.Changed() {
		m.notice = rolloverLog(res)
	}
	return m
}

func rolloverLog(res *engine.RolloverResult) string {
	s := "New day:"
	if n := len(res.HabitsReset); n == 1 {
		s += " streak reset on 1 habit."
	} else if n > 1 {
		s += fmt.Sprintf(" streaks reset on %d habits.", n)
	}
	if res.StreakDays {
		s += " Daily streak reset."
	}
	if res.ChainCleared {
		s += " Chain cleared."
	}
	return s
}
