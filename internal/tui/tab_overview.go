package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
	"github.com/theirongolddev/salesboard/internal/tui/components"
	"github.com/theirongolddev/salesboard/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	snap := a.snap
	compact := a.isCompactLayout()
	var b strings.Builder

	// Row 1: KPI cards for the selection
	top := snap.TopSeller
	topDelta := ""
	if top.Name != model.NoSeller {
		topDelta = fmt.Sprintf("%d sales", top.Count)
	}
	sum := snap.Summary
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Top seller", Value: top.Name, Delta: topDelta, Accent: t.AccentBright},
		{Label: "Avg stock time", Value: cli.FormatDays(snap.AvgStockDays), Delta: "records with days > 0"},
		{Label: "Units sold", Value: cli.FormatNumber(int64(sum.Units)), Delta: "margin " + cli.FormatPercent(sum.Margin)},
		{Label: "Revenue", Value: fmtMoney(sum.Revenue, compact), Delta: "profit " + fmtMoney(sum.NetProfit, true)},
	}, cw))
	b.WriteString("\n")

	// Row 2: Repasse, always computed over every record
	rep := snap.Repasse
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Repasse units", Value: cli.FormatNumber(int64(rep.Units)), Accent: t.Repasse},
		{Label: "Repasse revenue", Value: fmtMoney(rep.Revenue, compact), Accent: t.Repasse},
		{Label: "Repasse avg ticket", Value: fmtMoney(rep.AvgRevenue, compact), Accent: t.Repasse},
	}, cw))
	b.WriteString("\n")

	// Row 3: units per seller against goal
	innerW := components.CardInnerWidth(cw)
	if len(snap.SellerStats) == 0 {
		dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		b.WriteString(components.ContentCard("Units per seller", dim.Render("No records for the current selection."), cw))
		return b.String()
	}

	bars := make([]components.Bar, len(snap.SellerStats))
	for i, st := range snap.SellerStats {
		text := cli.FormatNumber(int64(st.Units))
		color := t.Accent
		if st.Goal > 0 {
			text += " / " + cli.FormatGoal(st.Goal)
			color = t.Progress(st.GoalProgress)
		}
		bars[i] = components.Bar{Label: st.Seller, Value: float64(st.Units), Text: text, Color: color}
	}
	b.WriteString(components.ContentCard("Units per seller (vs goal)", components.HorizontalBars(bars, innerW), cw))

	return b.String()
}
