package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LifeQuest theme (CLI + TUI).

const (
	IconHabit   = "🔁"
	IconReward  = "🎁"
	IconPoints  = "💰"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconChain   = "⚡"
	IconFire    = "🔥"
	IconClock   = "⏰"
	IconMap     = "🗺️"
	IconLock    = "🔒"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
	IconWizard  = "🧙"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// ProgressBar renders cur/max as a fixed-width bar.
func ProgressBar(cur, max, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if max > 0 {
		filled = cur * width / max
	}
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return Good.Render(strings.Repeat("█", filled)) + Muted.Render(strings.Repeat("░", width-filled))
}

// Multiplier renders a factor such as 1.5 as "×1.50", dimmed when neutral.
func Multiplier(f float64) string {
	s := fmt.Sprintf("×%.2f", f)
	if f == 1 {
		return Muted.Render(s)
	}
	return Gold.Render(s)
}

// Percent renders a bonus fraction such as 0.25 as "+25%", dimmed when zero.
func Percent(f float64) string {
	s := fmt.Sprintf("+%.0f%%", f*100)
	if f == 0 {
		return Muted.Render(s)
	}
	return Gold.Render(s)
}

func DoneText(done bool) string {
	if done {
		return Good.Render("done today")
	}
	return Warn.Render("open")
}

func CategoryIcon(category string) string {
	switch strings.ToLower(category) {
	case "wellness":
		return "🧘"
	case "health":
		return "💪"
	case "productivity":
		return "💼"
	case "learning":
		return "📚"
	case "social":
		return "🤝"
	case "finance":
		return "💵"
	case "entertainment":
		return "🎮"
	case "food & drink":
		return "☕"
	case "leisure":
		return "🛋️"
	case "shopping":
		return "🛍️"
	case "experience":
		return "🎟️"
	default:
		return "•"
	}
}
