package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block progress bar with percentage, used while loading.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var barColor lipgloss.Color
	switch {
	case pct >= 0.8:
		barColor = t.AccentBright
	case pct >= 0.5:
		barColor = t.Accent
	default:
		barColor = t.Cyan
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))

	return b.String() + spaceStyle.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// GoalBar renders goal progress for one seller. pct may exceed 1; the bar is
// clamped but the percentage shows the real value. A zero goal renders a dash.
func GoalBar(pct float64, hasGoal bool, barWidth int) string {
	t := theme.Active
	pctStyle := lipgloss.NewStyle().Foreground(t.Progress(pct)).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	if !hasGoal {
		return dimStyle.Render(strings.Repeat("·", barWidth)) + spaceStyle.Render(" ") + dimStyle.Render("   -")
	}

	return newBar(pct, barWidth).ViewAs(clamp01(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}

// CompactGoalBar renders a tiny status-bar-sized progress indicator.
func CompactGoalBar(label string, pct float64, width int) string {
	t := theme.Active

	barW := width - lipgloss.Width(label) - 6
	if barW < 4 {
		barW = 4
	}

	pctStyle := lipgloss.NewStyle().Foreground(t.Progress(pct)).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	return labelStyle.Render(label) +
		spaceStyle.Render(" ") +
		newBar(pct, barW).ViewAs(clamp01(pct)) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%2.0f%%", pct*100))
}

func newBar(pct float64, width int) progress.Model {
	t := theme.Active
	bar := progress.New(
		progress.WithSolidFill(string(t.Progress(pct))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)
	return bar
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
