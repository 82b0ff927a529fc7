// Package money renders monetary amounts for user-facing payloads. All
// internal arithmetic stays in decimal.Decimal; formatting is the only place
// float inputs are accepted, so non-finite values are absorbed here.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// Format renders an amount as "<symbol> 1,234.56" with two fixed decimals and
// thousands separators. NaN and infinities render as the zero amount rather
// than propagating garbage into API payloads.
func Format(amount float64, currency enums.Currency) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return FormatDecimal(decimal.NewFromFloat(amount), currency)
}

// FormatDecimal renders a decimal amount with the currency's display symbol.
func FormatDecimal(amount decimal.Decimal, currency enums.Currency) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	var b strings.Builder
	b.WriteString(currency.Symbol())
	b.WriteByte(' ')
	if negative {
		b.WriteByte('-')
	}
	b.WriteString(grouped)
	b.WriteByte('.')
	b.WriteString(parts[1])
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
