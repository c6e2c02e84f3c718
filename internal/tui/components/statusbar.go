package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports about the data.
type StatusInfo struct {
	LoadedAt    string // preformatted, empty when nothing loaded
	Filtered    int
	Records     int
	Refreshing  bool
	AutoRefresh bool
	Interval    string
	Warning     string // last reload error while older data is shown
	GoalPct     float64
	HasGoals    bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	left := base.Render(" ") +
		keyStyle.Render("[?]") + base.Render("help ") +
		keyStyle.Render("[r]") + base.Render("eload ") +
		keyStyle.Render("[q]") + base.Render("uit")

	var right []string
	switch {
	case info.Refreshing:
		right = append(right, keyStyle.Render("reloading…"))
	case info.Warning != "":
		right = append(right, warnStyle.Render("⚠ "+info.Warning))
	}
	if info.HasGoals {
		right = append(right, CompactGoalBar("goal", info.GoalPct, 16))
	}
	if info.Records > 0 {
		right = append(right, base.Render(fmt.Sprintf("%d/%d rows", info.Filtered, info.Records)))
	}
	if info.LoadedAt != "" {
		right = append(right, base.Render("loaded "+info.LoadedAt))
	}
	if info.AutoRefresh && info.Interval != "" {
		right = append(right, base.Render("auto "+info.Interval))
	}
	rightStr := strings.Join(right, base.Render("  ")) + base.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 1 {
		// Drop the right side before the key hints.
		rightStr = ""
		padding = width - lipgloss.Width(left)
		if padding < 0 {
			padding = 0
		}
	}

	return left + base.Render(strings.Repeat(" ", padding)) + rightStr
}
