// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatBRL formats a value in Brazilian reais, e.g. 1234.5 -> "R$1.234,50".
func FormatBRL(v float64) string {
	cur := money.GetCurrency(money.BRL)
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	cents := decimal.NewFromFloat(v).Mul(factor).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}

// FormatBRLShort formats a value in reais with a magnitude suffix for tight
// spaces, e.g. 1234567 -> "R$1,2M", 45300 -> "R$45,3K".
func FormatBRLShort(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}

	var s string
	switch {
	case abs >= 1_000_000_000:
		s = fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		s = fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 10_000:
		s = fmt.Sprintf("%.1fK", v/1_000)
	default:
		return FormatBRL(v)
	}
	s = strings.Replace(s, ".", ",", 1)
	if strings.HasPrefix(s, "-") {
		return "-R$" + s[1:]
	}
	return "R$" + s
}

// FormatNumber adds dot separators to an integer, pt-BR style.
// e.g., 1234567 -> "1.234.567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte('.')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatGoal formats a unit goal, dropping the fraction when it is whole.
// A zero goal renders as "-".
func FormatGoal(g float64) string {
	if g == 0 {
		return "-"
	}
	return strconv.FormatFloat(g, 'f', -1, 64)
}

// FormatDays formats an average stock time with one decimal, e.g. 7.5 -> "7.5d".
func FormatDays(d float64) string {
	return fmt.Sprintf("%.1fd", d)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
