package formatter

import (
	"fmt"
	"strings"

	"github.com/dagr-project/dagr/internal/project"
	"github.com/dagr-project/dagr/internal/selector"
)

// FormatDopamineMenu renders the dopamine-menu buckets as boxed sections,
// in the order quick wins, low energy, hyperfocus, other side quests.
func FormatDopamineMenu(menu selector.Menu) string {
	var b strings.Builder
	writeBucket(&b, "Quick Wins", menu.QuickWins)
	writeBucket(&b, "Low Energy", menu.LowEnergy)
	writeBucket(&b, "Hyperfocus", menu.Hyperfocus)
	writeBucket(&b, "Other Side Quests", menu.OtherSideQuests)
	return b.String()
}

func writeBucket(b *strings.Builder, title string, tasks []*project.Task) {
	if len(tasks) == 0 {
		return
	}
	var content strings.Builder
	for i, t := range tasks {
		if i > 0 {
			content.WriteString("\n")
		}
		fmt.Fprintf(&content, "%s  %s  %s", Bold(t.ID), t.Name, Dim(FormatHours(t.DurationHours)))
	}
	b.WriteString(RenderBox(title, content.String()))
	b.WriteString("\n")
}
