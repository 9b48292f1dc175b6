// Package money holds helpers for amounts expressed in whole currency units.
// Amounts are int64; rates and commission values are decimal.
package money

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent returns pct percent of amount, rounded half away from zero to a whole unit.
func Percent(amount int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(pct).Div(hundred).Round(0).IntPart()
}

// Times returns count * value rounded to a whole unit.
func Times(count int64, value decimal.Decimal) int64 {
	return value.Mul(decimal.NewFromInt(count)).Round(0).IntPart()
}

// LineTotal returns price * qty. ok is false when the product does not fit in an int64.
func LineTotal(price int64, qty int) (int64, bool) {
	q := int64(qty)
	if price == 0 || q == 0 {
		return 0, true
	}
	product := price * q
	if product/q != price || (price == -1 && q == math.MinInt64) || (q == -1 && price == math.MinInt64) {
		return 0, false
	}
	return product, true
}

// Add returns a + b. ok is false when the sum does not fit in an int64.
func Add(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Format renders an amount with dot thousand separators, e.g. 250000 -> "250.000".
func Format(amount int64) string {
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
		digits = digits[1:]
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatWithSymbol prefixes Format with a currency symbol.
func FormatWithSymbol(symbol string, amount int64) string {
	if symbol == "" {
		return Format(amount)
	}
	return symbol + " " + Format(amount)
}
