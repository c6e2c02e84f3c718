package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderYearsTab(cw int) string {
	t := theme.Active
	years := a.snap.ModelYears
	compact := a.isCompactLayout()

	if len(years) == 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		return components.ContentCard("Model years", dim.Render("No records for the current selection."), cw)
	}

	units := make([]components.Column, len(years))
	revenue := make([]components.Column, len(years))
	for i, y := range years {
		units[i] = components.Column{Label: shortYear(y.AnoMod), Value: float64(y.Units)}
		revenue[i] = components.Column{Label: shortYear(y.AnoMod), Value: y.Revenue}
	}

	chartH := 10
	if compact {
		chartH = 7
	}
	innerW := components.CardInnerWidth(cw)
	unitsChart := components.ColumnChart{
		Columns: units,
		Color:   t.Blue,
		Format:  func(v float64) string { return cli.FormatNumber(int64(v)) },
		Whole:   true,
	}
	revenueChart := components.ColumnChart{
		Columns: revenue,
		Color:   t.Green,
		Format:  cli.FormatBRLShort,
	}

	var b strings.Builder
	if compact {
		b.WriteString(components.ContentCard("Units by model year", unitsChart.Render(innerW, chartH), cw))
	} else {
		halfW := cw / 2
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			components.ContentCard("Units by model year", unitsChart.Render(components.CardInnerWidth(halfW), chartH), halfW),
			components.ContentCard("Revenue by model year", revenueChart.Render(components.CardInnerWidth(cw-halfW), chartH), cw-halfW),
		))
	}
	b.WriteString("\n")

	headStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var table strings.Builder
	table.WriteString(headStyle.Render(fmt.Sprintf("%-12s %6s %16s %8s", "Model year", "Units", "Revenue", "Share")))
	total := a.snap.Summary.Units
	for _, y := range years {
		share := 0.0
		if total > 0 {
			share = float64(y.Units) / float64(total)
		}
		table.WriteString("\n")
		table.WriteString(rowStyle.Render(fmt.Sprintf("%-12s %6d ", truncStr(y.AnoMod, 12), y.Units)))
		moneyStyle := lipgloss.NewStyle().Foreground(t.Money(y.Revenue)).Background(t.Surface)
		table.WriteString(moneyStyle.Render(fmt.Sprintf("%16s", fmtMoney(y.Revenue, compact))))
		table.WriteString(rowStyle.Render(fmt.Sprintf(" %8s", cli.FormatPercent(share))))
	}
	b.WriteString(components.ContentCard("Breakdown", table.String(), cw))

	return b.String()
}

// shortYear keeps x-axis labels narrow: "2019/2020" becomes "19/20".
func shortYear(s string) string {
	parts := strings.Split(s, "/")
	for i, p := range parts {
		if len(p) == 4 {
			parts[i] = p[2:]
		}
	}
	return strings.Join(parts, "/")
}
