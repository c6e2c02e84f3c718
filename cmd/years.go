package cmd

import (
	"fmt"

	"github.com/theirongolddev/salesboard/internal/cli"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "Units and revenue by vehicle model year",
	RunE:  runYears,
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}

func runYears(_ *cobra.Command, _ []string) error {
	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()

	snap := s.state.Snapshot()
	if len(snap.ModelYears) == 0 {
		fmt.Println("\n  No records for the current selection.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODEL YEARS  " + selectionLabel(snap)))
	fmt.Println()

	labelW := 0
	maxUnits := 0
	for _, y := range snap.ModelYears {
		labelW = max(labelW, lipgloss.Width(y.AnoMod))
		maxUnits = max(maxUnits, y.Units)
	}
	for _, y := range snap.ModelYears {
		text := fmt.Sprintf("%d  %s", y.Units, cli.FormatBRLShort(y.Revenue))
		fmt.Println(cli.RenderHorizontalBar(y.AnoMod, labelW, float64(y.Units), float64(maxUnits), 40, text))
	}
	fmt.Println()
	return nil
}
