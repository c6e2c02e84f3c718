package cli

import (
	"strings"
	"testing"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$0,00"},
		{1234.5, "R$1.234,50"},
		{1234567.891, "R$1.234.567,89"},
		{0.005, "R$0,01"},
	}
	for _, tt := range tests {
		if got := FormatBRL(tt.in); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatBRLShort(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{950, "R$950,00"},
		{45300, "R$45,3K"},
		{1234567, "R$1,2M"},
		{-2500000, "-R$2,5M"},
	}
	for _, tt := range tests {
		if got := FormatBRLShort(tt.in); got != tt.want {
			t.Errorf("FormatBRLShort(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{1234567, "1.234.567"},
		{-4200, "-4.200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDaysPercentGoal(t *testing.T) {
	if got := FormatDays(7.5); got != "7.5d" {
		t.Errorf("FormatDays(7.5) = %q", got)
	}
	if got := FormatDays(0); got != "0.0d" {
		t.Errorf("FormatDays(0) = %q", got)
	}
	if got := FormatPercent(0.125); got != "12.5%" {
		t.Errorf("FormatPercent(0.125) = %q", got)
	}
	if got := FormatGoal(0); got != "-" {
		t.Errorf("FormatGoal(0) = %q", got)
	}
	if got := FormatGoal(12); got != "12" {
		t.Errorf("FormatGoal(12) = %q", got)
	}
	if got := FormatGoal(2.5); got != "2.5" {
		t.Errorf("FormatGoal(2.5) = %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Sellers",
		Headers: []string{"Seller", "Units"},
		Rows:    [][]string{{"Ana", "3"}, {"---"}, {"Total", "3"}},
	})
	for _, want := range []string{"Sellers", "Seller", "Ana", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable output missing %q", want)
		}
	}
	if RenderTable(Table{}) != "" {
		t.Error("RenderTable(empty) should be empty")
	}
}
