// Package export renders dashboard snapshots to PNG charts and XLSX reports.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("export: no data to chart")

var (
	colorBar     = drawing.ColorFromHex("4385BE")
	colorGoalMet = drawing.ColorFromHex("879A39")
)

// SellerChartPNG draws units sold per seller. Sellers at or above their goal
// are drawn in green, and the goal is shown in the bar label.
func SellerChartPNG(w io.Writer, stats []model.SellerStats) error {
	if len(stats) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(stats))
	for _, s := range stats {
		label := s.Seller
		if s.Goal > 0 {
			label = fmt.Sprintf("%s (%d/%s)", s.Seller, s.Units, cli.FormatGoal(s.Goal))
		}
		color := colorBar
		if s.Goal > 0 && s.GoalProgress >= 1 {
			color = colorGoalMet
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(s.Units),
			Style: chart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1},
		})
	}

	return renderBars(w, "Unidades por vendedor", bars)
}

// ModelYearChartPNG draws units sold per model year.
func ModelYearChartPNG(w io.Writer, years []model.ModelYearStats) error {
	if len(years) == 0 {
		return ErrNoData
	}

	bars := make([]chart.Value, 0, len(years))
	for _, y := range years {
		bars = append(bars, chart.Value{
			Label: y.AnoMod,
			Value: float64(y.Units),
			Style: chart.Style{FillColor: colorBar, StrokeColor: colorBar, StrokeWidth: 1},
		})
	}
	return renderBars(w, "Unidades por ano/modelo", bars)
}

func renderBars(w io.Writer, title string, bars []chart.Value) error {
	width := 120 + 90*len(bars)
	if width < 640 {
		width = 640
	}

	// A single-valued range has no height; pad it so the axis renders.
	maxVal := 0.0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontSize: 14},
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     480,
		BarWidth:   50,
		BarSpacing: 40,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxVal * 1.1},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}
