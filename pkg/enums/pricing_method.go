package enums

import "fmt"

// PricingMethod identifies how a price list entry is converted into a charge.
type PricingMethod string

const (
	PricingMethodFlatUnit     PricingMethod = "flat_unit"
	PricingMethodFlatRate     PricingMethod = "flat_rate"
	PricingMethodPerKg        PricingMethod = "per_kg"
	PricingMethodPerKgPartial PricingMethod = "per_kg_partial"
	PricingMethodTiered       PricingMethod = "tiered"
	PricingMethodMarkup       PricingMethod = "markup"
	PricingMethodCopyFromList PricingMethod = "copy_from_list"
)

var validPricingMethods = []PricingMethod{
	PricingMethodFlatUnit,
	PricingMethodFlatRate,
	PricingMethodPerKg,
	PricingMethodPerKgPartial,
	PricingMethodTiered,
	PricingMethodMarkup,
	PricingMethodCopyFromList,
}

// String implements fmt.Stringer.
func (m PricingMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PricingMethod.
func (m PricingMethod) IsValid() bool {
	for _, candidate := range validPricingMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParsePricingMethod converts raw input into a PricingMethod.
func ParsePricingMethod(value string) (PricingMethod, error) {
	method := PricingMethod(value)
	if !method.IsValid() {
		return "", fmt.Errorf("invalid pricing method %q", value)
	}
	return method, nil
}
