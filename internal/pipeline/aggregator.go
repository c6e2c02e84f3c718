// Package pipeline orchestrates record loading, caching, and metric aggregation.
package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/salesboard/internal/model"
)

// FilterBySellers returns records whose seller is in the selection.
// Names outside the known seller set are allowed and simply match nothing.
func FilterBySellers(records []model.SaleRecord, selection []string) []model.SaleRecord {
	if len(selection) == 0 {
		return nil
	}
	selected := make(map[string]struct{}, len(selection))
	for _, s := range selection {
		selected[s] = struct{}{}
	}

	var result []model.SaleRecord
	for _, r := range records {
		if _, ok := selected[r.Vendedor]; ok {
			result = append(result, r)
		}
	}
	return result
}

// TopSeller returns the non-Repasse seller with the most records.
// Sellers are visited in first-encounter order and the leader only changes on a
// strictly greater count, so ties go to the seller seen first.
func TopSeller(records []model.SaleRecord) model.TopSeller {
	counts := make(map[string]int)
	var order []string

	for _, r := range records {
		if r.IsRepasse() {
			continue
		}
		if _, ok := counts[r.Vendedor]; !ok {
			order = append(order, r.Vendedor)
		}
		counts[r.Vendedor]++
	}

	top := model.TopSeller{Name: model.NoSeller}
	for _, seller := range order {
		if counts[seller] > top.Count {
			top = model.TopSeller{Name: seller, Count: counts[seller]}
		}
	}
	return top
}

// AverageStockDays returns the mean days in stock over records with Dias > 0,
// rounded to one decimal place. Returns 0 when no record qualifies.
func AverageStockDays(records []model.SaleRecord) float64 {
	var total float64
	n := 0
	for _, r := range records {
		if r.Dias > 0 {
			total += r.Dias
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return roundTenth(total / float64(n))
}

// AggregateRepasse computes Repasse metrics. Callers pass the unfiltered store so
// the result is independent of the seller selection.
func AggregateRepasse(records []model.SaleRecord) model.RepasseStats {
	var stats model.RepasseStats
	for _, r := range records {
		if !r.IsRepasse() {
			continue
		}
		stats.Units++
		stats.Revenue += r.ValorVenda
	}
	if stats.Units > 0 {
		stats.AvgRevenue = stats.Revenue / float64(stats.Units)
	}
	return stats
}

// Summarize computes totals across all given records.
func Summarize(records []model.SaleRecord) model.SummaryStats {
	var stats model.SummaryStats
	for _, r := range records {
		stats.Units++
		stats.Revenue += r.ValorVenda
		stats.NetProfit += r.LucroLiquido
	}
	if stats.Revenue != 0 {
		stats.Margin = stats.NetProfit / stats.Revenue
	}
	return stats
}

// AggregateSellers computes per-seller statistics in first-encounter order.
// Repasse records are skipped; goals are looked up by seller name.
func AggregateSellers(records []model.SaleRecord, goals map[string]float64) []model.SellerStats {
	idx := make(map[string]int)
	var sellers []model.SellerStats
	dayTotals := make([]float64, 0)
	dayCounts := make([]int, 0)

	for _, r := range records {
		if r.IsRepasse() {
			continue
		}
		i, ok := idx[r.Vendedor]
		if !ok {
			i = len(sellers)
			idx[r.Vendedor] = i
			sellers = append(sellers, model.SellerStats{Seller: r.Vendedor})
			dayTotals = append(dayTotals, 0)
			dayCounts = append(dayCounts, 0)
		}
		ss := &sellers[i]
		ss.Units++
		ss.Revenue += r.ValorVenda
		ss.NetProfit += r.LucroLiquido
		if r.Dias > 0 {
			dayTotals[i] += r.Dias
			dayCounts[i]++
		}
	}

	for i := range sellers {
		ss := &sellers[i]
		if dayCounts[i] > 0 {
			ss.AvgStockDays = roundTenth(dayTotals[i] / float64(dayCounts[i]))
		}
		ss.Goal = goals[ss.Seller]
		if ss.Goal > 0 {
			ss.GoalProgress = float64(ss.Units) / ss.Goal
		}
	}
	return sellers
}

// unknownYear groups records without a model year.
const unknownYear = "N/A"

// AggregateModelYears computes unit and revenue counts per model year, sorted
// ascending by year with the unknown bucket last.
func AggregateModelYears(records []model.SaleRecord) []model.ModelYearStats {
	yearMap := make(map[string]*model.ModelYearStats)

	for _, r := range records {
		key := strings.TrimSpace(r.AnoMod)
		if key == "" {
			key = unknownYear
		}
		ys, ok := yearMap[key]
		if !ok {
			ys = &model.ModelYearStats{AnoMod: key}
			yearMap[key] = ys
		}
		ys.Units++
		ys.Revenue += r.ValorVenda
	}

	years := make([]model.ModelYearStats, 0, len(yearMap))
	for _, ys := range yearMap {
		years = append(years, *ys)
	}
	sort.Slice(years, func(i, j int) bool {
		if years[i].AnoMod == unknownYear || years[j].AnoMod == unknownYear {
			return years[j].AnoMod == unknownYear && years[i].AnoMod != unknownYear
		}
		yi, iok := leadingYear(years[i].AnoMod)
		yj, jok := leadingYear(years[j].AnoMod)
		if iok && jok && yi != yj {
			return yi < yj
		}
		return years[i].AnoMod < years[j].AnoMod
	})
	return years
}

// leadingYear extracts the first four-digit year from values like "2019/2020".
func leadingYear(s string) (int, bool) {
	if len(s) < 4 {
		return 0, false
	}
	y, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0, false
	}
	return y, true
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
