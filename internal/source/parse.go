// Package source fetches sale records from spreadsheets, CSV files, URLs and
// Google Sheets, and parses them into model records.
package source

import (
	"errors"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/theirongolddev/salesboard/internal/model"
)

// ErrNoHeader is returned when a table has no non-empty row to use as header.
var ErrNoHeader = errors.New("source: no header row found")

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return "source: missing required column " + e.Column
}

type field int

const (
	fieldNone field = iota
	fieldDias
	fieldValorVenda
	fieldLucroLiquido
	fieldVendedor
	fieldAnoMod
)

// headerAliases maps normalized header names to record fields.
var headerAliases = map[string]field{
	"dias":          fieldDias,
	"diasestoque":   fieldDias,
	"diasemestoque": fieldDias,
	"diasparado":    fieldDias,
	"valorvenda":    fieldValorVenda,
	"valordevenda":  fieldValorVenda,
	"valor":         fieldValorVenda,
	"venda":         fieldValorVenda,
	"lucroliquido":  fieldLucroLiquido,
	"lucro":         fieldLucroLiquido,
	"vendedor":      fieldVendedor,
	"seller":        fieldVendedor,
	"anomod":        fieldAnoMod,
	"anomodelo":     fieldAnoMod,
	"ano":           fieldAnoMod,
}

// ParseRows converts a table of cells into sale records. The first row with any
// non-empty cell is treated as the header.
func ParseRows(rows [][]string) (Result, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Result{}, ErrNoHeader
	}

	cols := make(map[field]int)
	for i, h := range rows[headerIdx] {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}
	if _, ok := cols[fieldVendedor]; !ok {
		return Result{}, &MissingColumnError{Column: "vendedor"}
	}

	var result Result
	seen := make(map[string]struct{})

	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		result.Rows++

		seller := canonicalSeller(cell(row, cols, fieldVendedor))
		if seller == "" {
			result.Skipped++
			continue
		}

		rec := model.SaleRecord{
			Vendedor: seller,
			AnoMod:   strings.TrimSpace(cell(row, cols, fieldAnoMod)),
		}
		for _, nf := range []struct {
			f   field
			dst *float64
		}{
			{fieldDias, &rec.Dias},
			{fieldValorVenda, &rec.ValorVenda},
			{fieldLucroLiquido, &rec.LucroLiquido},
		} {
			v, ok := ParseNumber(cell(row, cols, nf.f))
			if !ok {
				result.Warnings++
			}
			*nf.dst = v
		}

		result.Records = append(result.Records, rec)
		if _, ok := seen[seller]; !ok {
			seen[seller] = struct{}{}
			result.Sellers = append(result.Sellers, seller)
		}
	}

	return result, nil
}

// ParseNumber parses a numeric cell written in Brazilian ("R$ 1.234,56") or
// plain ("1234.56") notation. Empty cells are 0 and valid. Cells with no digits
// return 0 and false.
//
// When both separators appear, the last one is the decimal separator. A lone
// comma is a decimal separator unless it repeats. A lone dot is a thousands
// separator when it repeats or is followed by exactly three digits after a
// 1-3 digit integer part ("R$ 45.000"), otherwise a decimal separator. A minus
// sign is only accepted before the first digit.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}

	negative := strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
	var b strings.Builder
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteRune(r)
		case r == '-':
			if hasDigit {
				return 0, false
			}
			negative = true
		}
	}
	if !hasDigit {
		return 0, false
	}

	num := b.String()
	lastDot := strings.LastIndexByte(num, '.')
	lastComma := strings.LastIndexByte(num, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			num = strings.ReplaceAll(num, ".", "")
			num = strings.Replace(num, ",", ".", 1)
		} else {
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(num, ",") > 1 {
			num = strings.ReplaceAll(num, ",", "")
		} else {
			num = strings.Replace(num, ",", ".", 1)
		}
	case lastDot >= 0:
		if strings.Count(num, ".") > 1 || isThousandsGroup(num, lastDot) {
			num = strings.ReplaceAll(num, ".", "")
		}
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return 0, false
	}
	if negative {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f, true
}

// isThousandsGroup reports whether the lone dot at i splits off a three digit
// group, as in "1.234" or "45.000". "0.125" and "1234.567" stay decimals.
func isThousandsGroup(num string, i int) bool {
	return len(num)-i-1 == 3 && i >= 1 && i <= 3 && num[0] != '0'
}

// canonicalSeller trims the name and maps any casing of the Repasse sentinel
// to its canonical spelling.
func canonicalSeller(name string) string {
	name = strings.TrimSpace(name)
	if model.IsReservedName(name) {
		return model.RepasseSeller
	}
	return name
}

// normalizeHeader lowercases, strips accents and drops every rune that is not a
// letter or digit: "Lucro Líquido" -> "lucroliquido", "Ano/Mod" -> "anomod".
func normalizeHeader(h string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, h)
	if err != nil {
		stripped = h
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cell(row []string, cols map[field]int, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
