package enums

import "fmt"

// OrderScenario identifies the business flow an order line is priced under.
type OrderScenario string

const (
	OrderScenarioOutright OrderScenario = "outright"
	OrderScenarioRefill   OrderScenario = "refill"
	OrderScenarioExchange OrderScenario = "exchange"
	OrderScenarioPickup   OrderScenario = "pickup"
)

var validOrderScenarios = []OrderScenario{
	OrderScenarioOutright,
	OrderScenarioRefill,
	OrderScenarioExchange,
	OrderScenarioPickup,
}

// String implements fmt.Stringer.
func (s OrderScenario) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderScenario.
func (s OrderScenario) IsValid() bool {
	for _, candidate := range validOrderScenarios {
		if candidate == s {
			return true
		}
	}
	return false
}

// ChargesDeposit reports whether the scenario adds the cylinder deposit to the
// customer charge. Only outright sales transfer cylinder ownership.
func (s OrderScenario) ChargesDeposit() bool {
	return s == OrderScenarioOutright
}

// ParseOrderScenario converts raw input into an OrderScenario.
func ParseOrderScenario(value string) (OrderScenario, error) {
	scenario := OrderScenario(value)
	if !scenario.IsValid() {
		return "", fmt.Errorf("invalid order scenario %q", value)
	}
	return scenario, nil
}
