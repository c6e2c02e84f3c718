package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/dashboard"
	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "KPI summary for the selected sellers",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap := s.state.Snapshot()
	if snap.Records == 0 {
		fmt.Println("\n  No sales records found.")
		fmt.Println("  Check that the sheet has a vendedor column with data.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SALES  " + selectionLabel(snap)))
	fmt.Println()

	top := snap.TopSeller.Name
	if top != model.NoSeller {
		top = fmt.Sprintf("%s (%d)", top, snap.TopSeller.Count)
	}
	sum := snap.Summary
	rows := [][]string{
		{"Top seller", top},
		{"Avg stock time", cli.FormatDays(snap.AvgStockDays)},
		{"---"},
		{"Units sold", cli.FormatNumber(int64(sum.Units))},
		{"Revenue", cli.FormatBRL(sum.Revenue)},
		{"Net profit", cli.FormatBRL(sum.NetProfit)},
		{"Margin", cli.FormatPercent(sum.Margin)},
		{"---"},
	}
	rows = append(rows, repasseRows(snap.Repasse)...)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}

func repasseRows(r model.RepasseStats) [][]string {
	return [][]string{
		{"Repasse units", cli.FormatNumber(int64(r.Units))},
		{"Repasse revenue", cli.FormatBRL(r.Revenue)},
		{"Repasse avg ticket", cli.FormatBRL(r.AvgRevenue)},
	}
}

// selectionLabel names the selection for report titles.
func selectionLabel(snap dashboard.Snapshot) string {
	switch {
	case len(snap.Selection) == len(snap.Sellers):
		return "all sellers"
	case len(snap.Selection) == 0:
		return "no sellers selected"
	case len(snap.Selection) <= 3:
		return strings.Join(snap.Selection, ", ")
	default:
		return fmt.Sprintf("%d of %d sellers", len(snap.Selection), len(snap.Sellers))
	}
}
