package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/salesboard/internal/dashboard"
)

// Sheet names in the generated workbook.
const (
	SheetSummary = "Resumo"
	SheetSellers = "Vendedores"
	SheetRepasse = "Repasse"
	SheetYears   = "Anos"
)

const brlNumFmt = `"R$" #,##0.00`

// ReportXLSX writes a workbook with summary, per-seller, repasse and
// model-year sheets for snap.
func ReportXLSX(w io.Writer, snap dashboard.Snapshot) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetSellers, SheetRepasse, SheetYears} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	if err := writeSummary(f, styles, snap); err != nil {
		return err
	}
	if err := writeSellers(f, styles, snap); err != nil {
		return err
	}
	if err := writeRepasse(f, styles, snap); err != nil {
		return err
	}
	if err := writeYears(f, styles, snap); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type styleSet struct {
	header int
	money  int
	pct    int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3AA99F"}},
	})
	if err != nil {
		return s, fmt.Errorf("creating header style: %w", err)
	}

	numFmt := brlNumFmt
	s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return s, fmt.Errorf("creating money style: %w", err)
	}

	s.pct, err = f.NewStyle(&excelize.Style{NumFmt: 10}) // 0.00%
	if err != nil {
		return s, fmt.Errorf("creating percent style: %w", err)
	}
	return s, nil
}

func writeSummary(f *excelize.File, st styleSet, snap dashboard.Snapshot) error {
	rows := [][]any{
		{"Indicador", "Valor"},
		{"Fonte", snap.Source},
		{"Atualizado em", snap.LoadedAt.Format("2006-01-02 15:04:05")},
		{"Vendedores selecionados", len(snap.Selection)},
		{"Top vendedor", snap.TopSeller.Name},
		{"Vendas do top vendedor", snap.TopSeller.Count},
		{"Tempo médio em estoque (dias)", snap.AvgStockDays},
		{"Unidades", snap.Summary.Units},
		{"Faturamento", snap.Summary.Revenue},
		{"Lucro líquido", snap.Summary.NetProfit},
		{"Margem", snap.Summary.Margin},
	}
	if err := writeRows(f, SheetSummary, rows, st.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B9", "B10", st.money); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "B11", "B11", st.pct); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 32)
}

func writeSellers(f *excelize.File, st styleSet, snap dashboard.Snapshot) error {
	rows := [][]any{{"Vendedor", "Unidades", "Faturamento", "Lucro líquido", "Dias médios", "Meta", "Progresso"}}
	for _, s := range snap.SellerStats {
		rows = append(rows, []any{s.Seller, s.Units, s.Revenue, s.NetProfit, s.AvgStockDays, s.Goal, s.GoalProgress})
	}
	if err := writeRows(f, SheetSellers, rows, st.header); err != nil {
		return err
	}
	if n := len(rows); n > 1 {
		last := fmt.Sprint(n)
		if err := f.SetCellStyle(SheetSellers, "C2", "D"+last, st.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetSellers, "G2", "G"+last, st.pct); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSellers, "A", "G", 16)
}

func writeRepasse(f *excelize.File, st styleSet, snap dashboard.Snapshot) error {
	rows := [][]any{
		{"Indicador", "Valor"},
		{"Unidades", snap.Repasse.Units},
		{"Faturamento", snap.Repasse.Revenue},
		{"Média por unidade", snap.Repasse.AvgRevenue},
	}
	if err := writeRows(f, SheetRepasse, rows, st.header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetRepasse, "B3", "B4", st.money); err != nil {
		return err
	}
	return f.SetColWidth(SheetRepasse, "A", "B", 22)
}

func writeYears(f *excelize.File, st styleSet, snap dashboard.Snapshot) error {
	rows := [][]any{{"Ano/Modelo", "Unidades", "Faturamento"}}
	for _, y := range snap.ModelYears {
		rows = append(rows, []any{y.AnoMod, y.Units, y.Revenue})
	}
	if err := writeRows(f, SheetYears, rows, st.header); err != nil {
		return err
	}
	if n := len(rows); n > 1 {
		if err := f.SetCellStyle(SheetYears, "C2", fmt.Sprintf("C%d", n), st.money); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetYears, "A", "C", 16)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, headerStyle)
}
