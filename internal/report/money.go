package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency formats an amount with two decimals and thousands separators,
// rounding half away from zero: 1234.5 -> "1,234.50".
func Currency(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// SignedCurrency is Currency with an explicit "+" on positive amounts.
func SignedCurrency(v float64) string {
	s := Currency(v)
	if s != "0.00" && !strings.HasPrefix(s, "-") {
		return "+" + s
	}
	return s
}

// Percent formats a 0..1 weight as a percentage with one decimal.
func Percent(w float64) string {
	return decimal.NewFromFloat(w * 100).Round(1).StringFixed(1) + "%"
}
