package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Column is one bar of a ColumnChart.
type Column struct {
	Label string
	Value float64
}

// ColumnChart draws vertical bars over a labeled y-axis, one per column.
type ColumnChart struct {
	Columns []Column
	Color   lipgloss.Color
	Format  func(float64) string // tick and fallback labels; defaults to whole numbers
	Whole   bool                 // counts: ticks never step below 1
}

// Render draws the chart in width x height cells. When the columns don't fit
// side by side it falls back to HorizontalBars so no column is dropped.
func (c ColumnChart) Render(width, height int) string {
	if len(c.Columns) == 0 {
		return ""
	}
	format := c.Format
	if format == nil {
		format = func(v float64) string { return fmt.Sprintf("%.0f", v) }
	}

	peak := 0.0
	for _, col := range c.Columns {
		peak = max(peak, col.Value)
	}
	if peak == 0 {
		peak = 1
	}

	step := chartTickStep(peak)
	if c.Whole && step < 1 {
		step = 1
	}
	for int(math.Ceil(peak/step)) > max(2, height/2) {
		step *= 2
	}
	ceiling := math.Ceil(peak/step) * step
	intervals := max(1, int(math.Round(ceiling/step)))
	rowsPerTick := max(2, height/intervals)
	chartH := rowsPerTick * intervals

	ticks := make(map[int]string, intervals)
	axisW := 4
	for i := 1; i <= intervals; i++ {
		lbl := format(step * float64(i))
		ticks[i*rowsPerTick] = lbl
		axisW = max(axisW, lipgloss.Width(lbl)+1)
	}

	n := len(c.Columns)
	plotW := width - axisW - 1
	colW := min((plotW-(n-1))/n, 6)
	if width < 15 || height < 3 || colW < 2 {
		return c.fallback(format, width)
	}
	axisLen := n*colW + n - 1

	t := theme.Active
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		// Brighter toward the top of the chart.
		shade := t.Accent
		switch pct := float64(row) / float64(chartH); {
		case pct > 0.8:
			shade = t.AccentBright
		case pct > 0.5:
			shade = c.Color
		}
		barStyle := lipgloss.NewStyle().Foreground(shade).Background(t.Surface)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", axisW, ticks[row])))
		for i, col := range c.Columns {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case col.Value >= top:
				b.WriteString(barStyle.Render(strings.Repeat("█", colW)))
			case col.Value > bottom:
				idx := min(max(int((col.Value-bottom)/(top-bottom)*8), 1), 8)
				b.WriteString(barStyle.Render(strings.Repeat(string(blocks[idx]), colW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", colW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	// Labels start under their column and are skipped when they would collide.
	under := []rune(strings.Repeat(" ", axisLen))
	next := 0
	for i, col := range c.Columns {
		pos := i * (colW + 1)
		lbl := []rune(col.Label)
		if pos < next || pos+len(lbl) > axisLen {
			continue
		}
		copy(under[pos:], lbl)
		next = pos + len(lbl) + 1
	}
	b.WriteString("\n")
	b.WriteString(blank.Render(strings.Repeat(" ", axisW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(under), " ")))

	return b.String()
}

func (c ColumnChart) fallback(format func(float64) string, width int) string {
	bars := make([]Bar, len(c.Columns))
	for i, col := range c.Columns {
		bars[i] = Bar{Label: col.Label, Value: col.Value, Text: format(col.Value), Color: c.Color}
	}
	return HorizontalBars(bars, width)
}

// Bar is one row of a HorizontalBars chart.
type Bar struct {
	Label string
	Value float64
	Text  string // right-hand annotation, e.g. "12 / 15"
	Color lipgloss.Color
}

// HorizontalBars renders one labeled bar per row, scaled to the largest value.
// Long labels are truncated so every bar starts in the same column.
func HorizontalBars(bars []Bar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	textW := 0
	peak := 0.0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		textW = max(textW, lipgloss.Width(b.Text))
		peak = max(peak, b.Value)
	}
	labelW = min(labelW, max(8, width/3))
	if peak == 0 {
		peak = 1
	}

	barMax := width - labelW - textW - 3
	if barMax < 4 {
		barMax = 4
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, len(bars))
	for i, b := range bars {
		color := b.Color
		if color == "" {
			color = t.Accent
		}
		n := int(math.Round(b.Value / peak * float64(barMax)))
		if b.Value > 0 && n == 0 {
			n = 1
		}
		n = min(max(n, 0), barMax)
		barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(b.Label, labelW))) +
			space.Render(" ") +
			barStyle.Render(strings.Repeat("█", n)) +
			space.Render(strings.Repeat(" ", barMax-n+1)) +
			textStyle.Render(b.Text)
	}
	return strings.Join(lines, "\n")
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}
