package controllers

import (
	"net/http"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

type customerTierResponse struct {
	Tier        enums.CustomerTier `json:"tier"`
	DiscountPct float64            `json:"discount_pct"`
}

// CustomerTierIndex lists the advertised loyalty tiers and their discounts.
// The discounts are informational; price resolution never applies them.
func CustomerTierIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tiers := make([]customerTierResponse, 0, len(enums.AllCustomerTiers()))
		for _, tier := range enums.AllCustomerTiers() {
			tiers = append(tiers, customerTierResponse{
				Tier:        tier,
				DiscountPct: tier.DiscountPercent(),
			})
		}
		responses.WriteSuccess(w, map[string]any{"tiers": tiers})
	}
}
