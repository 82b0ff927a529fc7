package enums

import "fmt"

// CustomerTier buckets customers for the advertised loyalty discount. The
// discount is informational only and is never applied inside price resolution.
type CustomerTier string

const (
	CustomerTierPremium  CustomerTier = "premium"
	CustomerTierGold     CustomerTier = "gold"
	CustomerTierSilver   CustomerTier = "silver"
	CustomerTierStandard CustomerTier = "standard"
)

var tierDiscountPercent = map[CustomerTier]float64{
	CustomerTierPremium:  10,
	CustomerTierGold:     5,
	CustomerTierSilver:   2,
	CustomerTierStandard: 0,
}

// String implements fmt.Stringer.
func (t CustomerTier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known CustomerTier.
func (t CustomerTier) IsValid() bool {
	_, ok := tierDiscountPercent[t]
	return ok
}

// DiscountPercent returns the advertised discount for the tier.
func (t CustomerTier) DiscountPercent() float64 {
	return tierDiscountPercent[t]
}

// AllCustomerTiers lists the known tiers in descending discount order.
func AllCustomerTiers() []CustomerTier {
	return []CustomerTier{
		CustomerTierPremium,
		CustomerTierGold,
		CustomerTierSilver,
		CustomerTierStandard,
	}
}

// ParseCustomerTier converts raw input into a CustomerTier.
func ParseCustomerTier(value string) (CustomerTier, error) {
	tier := CustomerTier(value)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid customer tier %q", value)
	}
	return tier, nil
}
