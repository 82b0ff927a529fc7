package enums

import "fmt"

// Currency is an ISO-4217 currency code supported by the pricing stack.
type Currency string

const (
	CurrencyKES Currency = "KES"
	CurrencyUGX Currency = "UGX"
	CurrencyTZS Currency = "TZS"
	CurrencyUSD Currency = "USD"
)

// DefaultCurrency is the base currency deposits and price lists default to.
const DefaultCurrency = CurrencyKES

var currencySymbols = map[Currency]string{
	CurrencyKES: "Ksh",
	CurrencyUGX: "USh",
	CurrencyTZS: "TSh",
	CurrencyUSD: "$",
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the value is a known Currency.
func (c Currency) IsValid() bool {
	_, ok := currencySymbols[c]
	return ok
}

// Symbol returns the display prefix for formatted amounts.
func (c Currency) Symbol() string {
	if symbol, ok := currencySymbols[c]; ok {
		return symbol
	}
	return currencySymbols[DefaultCurrency]
}

// ParseCurrency converts raw input into a Currency.
func ParseCurrency(value string) (Currency, error) {
	currency := Currency(value)
	if !currency.IsValid() {
		return "", fmt.Errorf("invalid currency %q", value)
	}
	return currency, nil
}
