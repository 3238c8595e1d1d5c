// Package formatter renders engine output (tasks, schedules, critical-path
// reports, the dopamine menu) as styled terminal text, in the teacher's
// Gruvbox-palette, lipgloss-styled idiom.
package formatter

import (
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette, matching the teacher's exact hexes.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// CritBadge renders the "CRIT" badge shown on critical-path schedule rows.
func CritBadge(critical bool) string {
	if !critical {
		return ""
	}
	return StyleRed.Render("CRIT")
}

// LateBadge renders the "LATE" badge for a done task that breached its
// deadline before finishing.
func LateBadge(late bool) string {
	if !late {
		return ""
	}
	return StyleRed.Bold(true).Render("LATE")
}

// BGBadge renders the "BG" badge marking a background task or block.
func BGBadge(background bool) string {
	if !background {
		return ""
	}
	return StylePurple.Render("BG")
}

// StatusBadge renders a colored lifecycle-status indicator for a task.
func StatusBadge(status string) string {
	switch status {
	case "done":
		return StyleGreen.Render("✔ done")
	case "in_progress":
		return StyleYellow.Render("● in progress")
	case "not_started":
		return StyleDim.Render("○ not started")
	default:
		return StyleDim.Render(status)
	}
}

// Header renders a section header in the bold orange header style,
// matching the teacher's Header helper.
func Header(text string) string {
	return StyleHeader.Render(text)
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
