package model

// TopSeller is the seller with the most non-Repasse sales in a record set.
type TopSeller struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RepasseStats holds metrics for the Repasse sentinel seller.
type RepasseStats struct {
	Units      int     `json:"units"`
	Revenue    float64 `json:"revenue"`
	AvgRevenue float64 `json:"avg_revenue"`
}

// SummaryStats holds the top-level totals across a record set.
type SummaryStats struct {
	Units     int     `json:"units"`
	Revenue   float64 `json:"revenue"`
	NetProfit float64 `json:"net_profit"`
	Margin    float64 `json:"margin"` // NetProfit / Revenue, 0 when Revenue is 0
}

// SellerStats holds aggregated metrics for a single seller.
type SellerStats struct {
	Seller       string  `json:"seller"`
	Units        int     `json:"units"`
	Revenue      float64 `json:"revenue"`
	NetProfit    float64 `json:"net_profit"`
	AvgStockDays float64 `json:"avg_stock_days"`
	Goal         float64 `json:"goal"`
	GoalProgress float64 `json:"goal_progress"` // Units / Goal, 0 when no goal is set
}

// ModelYearStats holds unit and revenue counts for one model year.
type ModelYearStats struct {
	AnoMod  string  `json:"ano_mod"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}
