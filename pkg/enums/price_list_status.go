package enums

import "fmt"

// PriceListStatus derives from a price list's validity window relative to a
// reference date.
type PriceListStatus string

const (
	PriceListStatusActive  PriceListStatus = "active"
	PriceListStatusFuture  PriceListStatus = "future"
	PriceListStatusExpired PriceListStatus = "expired"
)

// String implements fmt.Stringer.
func (s PriceListStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PriceListStatus.
func (s PriceListStatus) IsValid() bool {
	switch s {
	case PriceListStatusActive, PriceListStatusFuture, PriceListStatusExpired:
		return true
	}
	return false
}

// ParsePriceListStatus converts a raw string into a PriceListStatus.
func ParsePriceListStatus(value string) (PriceListStatus, error) {
	status := PriceListStatus(value)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid price list status %q", value)
	}
	return status, nil
}
