package components

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestHorizontalBarsScaling(t *testing.T) {
	out := HorizontalBars([]Bar{
		{Label: "Ana", Value: 10, Text: "10"},
		{Label: "Bruno", Value: 5, Text: "5"},
		{Label: "Carla", Value: 0, Text: "0"},
	}, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}

	blocks := func(s string) int { return strings.Count(s, "█") }
	if blocks(lines[0]) <= blocks(lines[1]) {
		t.Fatalf("largest value should have the longest bar: %d vs %d", blocks(lines[0]), blocks(lines[1]))
	}
	if blocks(lines[2]) != 0 {
		t.Fatalf("zero value drew %d blocks", blocks(lines[2]))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line %d width = %d, exceeds 40", i, w)
		}
	}
}

func TestHorizontalBarsEmpty(t *testing.T) {
	if got := HorizontalBars(nil, 40); got != "" {
		t.Fatalf("HorizontalBars(nil) = %q, want empty", got)
	}
}

func TestColumnChartWholeTicks(t *testing.T) {
	chart := ColumnChart{
		Columns: []Column{{"19/20", 2}, {"20/21", 1}, {"21/22", 0}},
		Whole:   true,
	}
	out := chart.Render(40, 6)
	if strings.Contains(out, "0.5") {
		t.Fatalf("unit chart has a fractional tick:\n%s", out)
	}
	for _, want := range []string{"19/20", "20/21", "21/22", "█"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > 40 {
			t.Errorf("line %d width = %d, exceeds 40", i, w)
		}
	}
}

func TestColumnChartFormatsTicks(t *testing.T) {
	chart := ColumnChart{
		Columns: []Column{{"19/20", 90000}, {"20/21", 45000}},
		Format:  func(v float64) string { return fmt.Sprintf("R$%.0fK", v/1000) },
	}
	out := chart.Render(40, 8)
	if !strings.Contains(out, "R$") {
		t.Fatalf("ticks not formatted:\n%s", out)
	}
}

func TestColumnChartFallsBackWhenNarrow(t *testing.T) {
	cols := make([]Column, 12)
	for i := range cols {
		cols[i] = Column{Label: fmt.Sprintf("%d", 2010+i), Value: float64(i + 1)}
	}
	out := ColumnChart{Columns: cols}.Render(30, 8)

	lines := strings.Split(out, "\n")
	if len(lines) != len(cols) {
		t.Fatalf("fallback lines = %d, want one per column (%d)", len(lines), len(cols))
	}
	if !strings.Contains(out, "2021") {
		t.Errorf("fallback dropped the last column:\n%s", out)
	}
}

func TestColumnChartEmpty(t *testing.T) {
	if got := (ColumnChart{}).Render(40, 8); got != "" {
		t.Fatalf("empty chart = %q, want empty", got)
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{5, 1},
		{12, 2},
		{40, 5},
		{1000, 200},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('y'); got != 2 {
		t.Fatalf("TabIdxByKey('y') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}
