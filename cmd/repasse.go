package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/cli"

	"github.com/spf13/cobra"
)

var repasseCmd = &cobra.Command{
	Use:   "repasse",
	Short: "Metrics for wholesale (Repasse) sales",
	Long:  "Repasse is computed over every loaded record, independent of the seller selection.",
	RunE:  runRepasse,
}

func init() {
	rootCmd.AddCommand(repasseCmd)
}

func runRepasse(_ *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap := s.state.Snapshot()
	fmt.Println()
	fmt.Println(cli.RenderTitle("REPASSE"))
	fmt.Println()

	if snap.Repasse.Units == 0 {
		fmt.Println("  No Repasse sales in the loaded records.")
		return nil
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    repasseRows(snap.Repasse),
	}))
	return nil
}
