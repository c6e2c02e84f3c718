// Package model defines domain types for salesboard records and metrics.
package model

import "strings"

// RepasseSeller is the reserved seller name for pass-through/trade-in sales.
// Repasse records are tracked separately from regular seller performance.
const RepasseSeller = "Repasse"

// NoSeller is the top-seller name reported when no record qualifies.
const NoSeller = "-"

// SaleRecord is one sold vehicle as loaded from the data source.
type SaleRecord struct {
	Dias         float64 `json:"dias"`          // days in stock; zero or negative means unset
	ValorVenda   float64 `json:"valor_venda"`   // sale value
	LucroLiquido float64 `json:"lucro_liquido"` // net profit
	Vendedor     string  `json:"vendedor"`      // seller name
	AnoMod       string  `json:"ano_mod"`       // model year, e.g. "2019/2020"
}

// IsRepasse reports whether the record belongs to the Repasse sentinel seller.
func (r SaleRecord) IsRepasse() bool {
	return r.Vendedor == RepasseSeller
}

// IsReservedName reports whether name normalizes (trimmed, case-insensitive)
// to the Repasse sentinel.
func IsReservedName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), RepasseSeller)
}
