package enums

import "fmt"

// CylinderVariant classifies the physical state a cylinder product is sold in.
type CylinderVariant string

const (
	CylinderVariantFullExchange CylinderVariant = "full_exchange"
	CylinderVariantFullOutright CylinderVariant = "full_outright"
	CylinderVariantEmpty        CylinderVariant = "empty"
	CylinderVariantAccessory    CylinderVariant = "accessory"
)

var validCylinderVariants = []CylinderVariant{
	CylinderVariantFullExchange,
	CylinderVariantFullOutright,
	CylinderVariantEmpty,
	CylinderVariantAccessory,
}

// String implements fmt.Stringer.
func (v CylinderVariant) String() string {
	return string(v)
}

// IsValid reports whether the value is a known CylinderVariant.
func (v CylinderVariant) IsValid() bool {
	for _, candidate := range validCylinderVariants {
		if candidate == v {
			return true
		}
	}
	return false
}

// GasFillEligible reports whether the variant qualifies for weight-based gas
// fill pricing. Empty and accessory listings never do.
func (v CylinderVariant) GasFillEligible() bool {
	return v == CylinderVariantFullExchange || v == CylinderVariantFullOutright
}

// ParseCylinderVariant converts raw input into a CylinderVariant.
func ParseCylinderVariant(value string) (CylinderVariant, error) {
	variant := CylinderVariant(value)
	if !variant.IsValid() {
		return "", fmt.Errorf("invalid cylinder variant %q", value)
	}
	return variant, nil
}
