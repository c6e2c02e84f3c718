package dashboard

import (
	"slices"
	"time"

	"github.com/theirongolddev/salesboard/internal/model"
)

// Snapshot is a point-in-time copy of the dashboard. The presentation layers
// render from it and never see the live state.
type Snapshot struct {
	Version   uint64    `json:"version"`
	Source    string    `json:"source"`
	LoadedAt  time.Time `json:"loaded_at"`
	Loading   bool      `json:"loading"`
	LastError string    `json:"last_error,omitempty"`

	Records  int `json:"records"`
	Filtered int `json:"filtered"`

	Sellers   []string           `json:"sellers"`
	Selection []string           `json:"selection"`
	Goals     map[string]float64 `json:"goals"`

	TopSeller    model.TopSeller        `json:"top_seller"`
	AvgStockDays float64                `json:"avg_stock_days"`
	Repasse      model.RepasseStats     `json:"repasse"`
	Summary      model.SummaryStats     `json:"summary"`
	SellerStats  []model.SellerStats    `json:"seller_stats"`
	ModelYears   []model.ModelYearStats `json:"model_years"`
}

// IsSelected reports whether name is in the selection.
func (s Snapshot) IsSelected(name string) bool {
	return slices.Contains(s.Selection, name)
}

// Loaded reports whether any reload has succeeded yet.
func (s Snapshot) Loaded() bool {
	return !s.LoadedAt.IsZero()
}
