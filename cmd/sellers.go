package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/cli"
	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var sellersCmd = &cobra.Command{
	Use:   "sellers",
	Short: "Per-seller units, revenue and goal progress",
	RunE:  runSellers,
}

func init() {
	rootCmd.AddCommand(sellersCmd)
}

func runSellers(_ *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap := s.state.Snapshot()
	if len(snap.SellerStats) == 0 {
		fmt.Println("\n  No seller records for the current selection.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SELLERS  " + selectionLabel(snap)))
	fmt.Println()

	rows := make([][]string, 0, len(snap.SellerStats))
	for _, st := range snap.SellerStats {
		rows = append(rows, []string{
			st.Seller,
			cli.FormatNumber(int64(st.Units)),
			cli.RenderMoney(cli.FormatBRL(st.Revenue)),
			cli.FormatBRL(st.NetProfit),
			cli.FormatDays(st.AvgStockDays),
			cli.FormatGoal(st.Goal),
			goalCell(st),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Seller", "Units", "Revenue", "Profit", "Avg Days", "Goal", "Progress"},
		Rows:    rows,
	}))

	fmt.Println(cli.RenderMuted(fmt.Sprintf("  %s excluded from seller stats; see `salesboard repasse`.", model.RepasseSeller)))
	return nil
}

// goalCell renders progress against the goal, or a dash when none is set.
func goalCell(st model.SellerStats) string {
	if st.Goal <= 0 {
		return cli.RenderMuted("-")
	}
	color := cli.ColorRed
	switch {
	case st.GoalProgress >= 1:
		color = cli.ColorGreen
	case st.GoalProgress >= 0.5:
		color = cli.ColorYellow
	case st.GoalProgress > 0:
		color = cli.ColorOrange
	}
	pct := lipgloss.NewStyle().Foreground(color).Render(cli.FormatPercent(st.GoalProgress))
	return cli.RenderProgressBar(st.Units, int(st.Goal+0.5), 10) + " " + pct
}
