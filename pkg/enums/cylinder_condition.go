package enums

import "fmt"

// CylinderCondition grades a returned cylinder for refund purposes.
type CylinderCondition string

const (
	CylinderConditionExcellent CylinderCondition = "excellent"
	CylinderConditionGood      CylinderCondition = "good"
	CylinderConditionFair      CylinderCondition = "fair"
	CylinderConditionPoor      CylinderCondition = "poor"
	CylinderConditionDamaged   CylinderCondition = "damaged"
	CylinderConditionScrap     CylinderCondition = "scrap"
)

var validCylinderConditions = []CylinderCondition{
	CylinderConditionExcellent,
	CylinderConditionGood,
	CylinderConditionFair,
	CylinderConditionPoor,
	CylinderConditionDamaged,
	CylinderConditionScrap,
}

// String implements fmt.Stringer.
func (c CylinderCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CylinderCondition.
func (c CylinderCondition) IsValid() bool {
	for _, candidate := range validCylinderConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCylinderCondition converts raw input into a CylinderCondition.
func ParseCylinderCondition(value string) (CylinderCondition, error) {
	condition := CylinderCondition(value)
	if !condition.IsValid() {
		return "", fmt.Errorf("invalid cylinder condition %q", value)
	}
	return condition, nil
}
