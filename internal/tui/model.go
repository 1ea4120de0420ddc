package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lifequest/internal/engine"
	"lifequest/internal/storage"
	"lifequest/internal/ui"
)

type pane int

const (
	paneHabits pane = iota
	paneRewards
)

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	overview *engine.Overview

	pane     pane
	selected int

	// notice is set once when the board opens and stays in the footer.
	notice  string
	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	overview *engine.Overview
	err      error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type redeemedMsg struct {
	res *engine.RedeemResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ov, err := m.svc.Overview(m.ctx)
		return loadedMsg{overview: ov, err: err}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteHabit(m.ctx, id)
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) redeemCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.RedeemReward(m.ctx, id)
		return redeemedMsg{res: res, err: err}
	}
}

func (m boardModel) rowCount() int {
	if m.overview == nil {
		return 0
	}
	if m.pane == paneRewards {
		return len(m.overview.Rewards)
	}
	return len(m.overview.Habits)
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.overview = msg.overview
		if n := m.rowCount(); m.selected >= n {
			m.selected = n - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", m.svc.Now().In(m.svc.Location()).Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = completeLog(msg.res)
		return m, m.loadCmd()
	case redeemedMsg:
		if msg.err != nil {
			m.lastLog = "Redeem failed: " + msg.err.Error()
			return m, nil
		}
		if !msg.res.Redeemed {
			m.lastLog = fmt.Sprintf("Not enough points for %s (%d/%d).", msg.res.RewardName, msg.res.PointsBefore, msg.res.Cost)
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Redeemed %s: -%d points (%d left)", msg.res.RewardName, msg.res.Cost, msg.res.PointsAfter)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "tab":
			if m.pane == paneHabits {
				m.pane = paneRewards
			} else {
				m.pane = paneHabits
			}
			m.selected = 0
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.rowCount()-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			if m.overview == nil || m.selected < 0 || m.selected >= m.rowCount() {
				return m, nil
			}
			if m.pane == paneRewards {
				r := m.overview.Rewards[m.selected]
				m.lastLog = fmt.Sprintf("Redeeming %s…", r.Name)
				return m, m.redeemCmd(r.ID)
			}
			h := m.overview.Habits[m.selected]
			if h.DoneToday {
				m.lastLog = "Already done today."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %s…", h.Habit.Name)
			return m, m.completeCmd(h.Habit.ID)
		}
	}
	return m, nil
}

func completeLog(res *engine.CompleteResult) string {
	if !res.Completed {
		return fmt.Sprintf("%s is already done today.", res.HabitName)
	}
	s := fmt.Sprintf("Completed %s: +%d points (streak %d, chain %d)", res.HabitName, res.PointsAwarded, res.Streak, res.ChainCount)
	if res.LevelUp {
		s += fmt.Sprintf(" LEVEL UP %d → %d", res.LevelBefore, res.LevelAfter)
	}
	for _, a := range res.Unlocked {
		s += " " + a.Icon + " " + a.Title
	}
	return s
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	max := len(linesLeft)
	if len(linesRight) > max {
		max = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.overview == nil {
		return ui.Title.Render("LifeQuest") + " loading…"
	}
	u := m.overview.User
	bar := progressBar(u.Experience, u.NextLevelAt, 30)
	return fmt.Sprintf("%s | %s | Level %d | XP %d/%d %s | %s %d | %s %dd",
		ui.Title.Render("LifeQuest"), u.Name, u.Level, u.Experience, u.NextLevelAt, bar,
		ui.IconPoints, u.Points, ui.IconFire, u.StreakDays)
}

func (m boardModel) renderSidebar() string {
	if m.overview == nil {
		return "Bonuses\n\nLoading…"
	}
	b := m.overview.Bonuses
	load := "auto"
	if b.LoadPersonalized {
		load = "personal"
	}
	window := "none"
	if b.Time.Window != "" {
		window = b.Time.Window
	}
	lines := []string{ui.PanelTitle.Render("Bonuses")}
	lines = append(lines, fmt.Sprintf("- goal     x%.2f (%.0f%%)", b.GoalGradient, b.CompletionRatio*100))
	lines = append(lines, fmt.Sprintf("- load     x%.2f (%s)", b.Load.Reward, load))
	lines = append(lines, fmt.Sprintf("- time     +%.0f%% (%s)", b.Time.Bonus*100, window))
	lines = append(lines, fmt.Sprintf("- chain    +%.0f%% (%d/%d)", b.ChainBonus*100, b.ChainCount, engine.MaxChainCount))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("Achievements %d/%d", m.overview.Unlocked, m.overview.TotalAchievements))
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- tab: habits/rewards")
	lines = append(lines, "- c/space: complete/redeem")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	if m.pane == paneRewards {
		return m.renderRewards()
	}
	return m.renderHabits()
}

func (m boardModel) renderHabits() string {
	out := []string{ui.PanelTitle.Render("Habits") + "  (tab: rewards)"}
	if len(m.overview.Habits) == 0 {
		out = append(out, "(no habits yet)")
		return strings.Join(out, "\n")
	}
	for i, h := range m.overview.Habits {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "[ ]"
		gain := fmt.Sprintf("+%d", h.PointsIfDone)
		if h.DoneToday {
			mark = "[x]"
			gain = "done"
		}
		row := fmt.Sprintf("%s%s %s (%s, streak %d) %s", cursor, mark, h.Habit.Name, h.Habit.Frequency, h.Habit.Streak, gain)
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderRewards() string {
	out := []string{ui.PanelTitle.Render("Rewards") + "  (tab: habits)"}
	if len(m.overview.Rewards) == 0 {
		out = append(out, "(no rewards yet)")
		return strings.Join(out, "\n")
	}
	for i, r := range m.overview.Rewards {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		afford := " "
		if m.overview.CanAfford(r) {
			afford = "$"
		}
		row := fmt.Sprintf("%s%s %s (cost %d, redeemed %d×)", cursor, afford, r.Name, r.Cost, len(r.RedeemedDates))
		if last, ok := lastRedeemed(r); ok {
			row += " last " + last.In(m.svc.Location()).Format("Jan 2")
		}
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	if m.notice != "" {
		return "\n" + ui.Warn.Render(m.notice) + "\n" + m.lastLog
	}
	return "\n" + m.lastLog
}

func lastRedeemed(r storage.Reward) (time.Time, bool) {
	if len(r.RedeemedDates) == 0 {
		return time.Time{}, false
	}
	return r.RedeemedDates[len(r.RedeemedDates)-1], true
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Render(s)
}
