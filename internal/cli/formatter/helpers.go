package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatHours renders a task's duration in hours, using a whole-number
// form when the value has no fractional part.
func FormatHours(h float64) string {
	if h == float64(int64(h)) {
		return fmt.Sprintf("%dh", int64(h))
	}
	return fmt.Sprintf("%.1fh", h)
}

// RelativeTime renders t relative to now (e.g. "3 hours ago", "2 days
// from now"), for actual-start/actual-finish timestamps in task detail
// views.
func RelativeTime(t time.Time, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// HumanDate renders an absolute date for schedule/deadline display.
func HumanDate(t time.Time) string {
	return t.Format("Mon Jan 2")
}

// HumanDatetime renders an absolute wall-clock timestamp for schedule
// block display.
func HumanDatetime(t time.Time) string {
	return t.Format("Mon Jan 2 15:04")
}
