package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/salesboard/internal/export"

	"github.com/spf13/cobra"
)

var (
	flagExportPNG      string
	flagExportYearsPNG string
	flagExportXLSX     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export charts (PNG) or a KPI workbook (XLSX)",
	Example: `  salesboard export --png sellers.png
  salesboard export --xlsx report.xlsx --seller Ana --seller Bruno`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&flagExportPNG, "png", "", "Write a units-per-seller bar chart to this file")
	exportCmd.Flags().StringVar(&flagExportYearsPNG, "years-png", "", "Write a units-per-model-year bar chart to this file")
	exportCmd.Flags().StringVar(&flagExportXLSX, "xlsx", "", "Write a KPI workbook to this file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	if flagExportPNG == "" && flagExportYearsPNG == "" && flagExportXLSX == "" {
		return errors.New("nothing to export: pass --png, --years-png or --xlsx")
	}

	s, err := loadSession()
	if err != nil {
		return err
	}
	defer s.Close()
	snap := s.state.Snapshot()

	if flagExportPNG != "" {
		err := writeFile(flagExportPNG, func(w io.Writer) error {
			return export.SellerChartPNG(w, snap.SellerStats)
		})
		if err != nil {
			return err
		}
	}
	if flagExportYearsPNG != "" {
		err := writeFile(flagExportYearsPNG, func(w io.Writer) error {
			return export.ModelYearChartPNG(w, snap.ModelYears)
		})
		if err != nil {
			return err
		}
	}
	if flagExportXLSX != "" {
		err := writeFile(flagExportXLSX, func(w io.Writer) error {
			return export.ReportXLSX(w, snap)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// writeFile renders into path, removing the partial file on failure.
func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		if errors.Is(err, export.ErrNoData) {
			return fmt.Errorf("%s: nothing to draw for the current selection", path)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s\n", path)
	}
	return nil
}
