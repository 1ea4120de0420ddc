package root

import (
	"fmt"
	"io"

	"lifequest/internal/engine"
	"lifequest/internal/storage"
	"lifequest/internal/ui"
)

func printUnlocked(w io.Writer, unlocked []storage.Achievement) {
	for _, a := range unlocked {
		fmt.Fprintf(w, "%s %s %s %s\n", ui.Gold.Render(ui.IconTrophy+" Achievement unlocked:"), a.Icon, a.Title, ui.Muted.Render("("+a.Description+")"))
	}
}

func printDiscovered(w io.Writer, worlds []engine.World) {
	for _, wd := range worlds {
		fmt.Fprintf(w, "%s %s %s\n", ui.Good.Render(ui.IconMap+" New world discovered:"), wd.Name, ui.Muted.Render("(lq travel "+wd.Key+")"))
	}
}

func printLevelUp(w io.Writer, before, after int) {
	fmt.Fprintf(w, "%s %d → %d\n", ui.BadgeLevelUp, before, after)
}

func printBonuses(w io.Writer, b engine.Bonuses) {
	load := "auto"
	if b.LoadPersonalized {
		load = "personalized"
	}
	window := "no window"
	if b.Time.Window != "" {
		window = b.Time.Window
	}
	fmt.Fprintf(w, "- %s %s %s\n", ui.Key.Render("Goal gradient:"), ui.Multiplier(b.GoalGradient), ui.Muted.Render(fmt.Sprintf("(%.0f%% done today)", b.CompletionRatio*100)))
	fmt.Fprintf(w, "- %s %s %s\n", ui.Key.Render("Progressive load:"), ui.Multiplier(b.Load.Reward), ui.Muted.Render("("+load+")"))
	fmt.Fprintf(w, "- %s %s %s\n", ui.Key.Render("Time bonus:"), ui.Percent(b.Time.Bonus), ui.Muted.Render("("+window+")"))
	fmt.Fprintf(w, "- %s %s %s\n", ui.Key.Render("Chain reaction:"), ui.Percent(b.ChainBonus), ui.Muted.Render(fmt.Sprintf("(%d/%d)", b.ChainCount, engine.MaxChainCount)))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
