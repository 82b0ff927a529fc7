package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// GasDensityKgPerL converts cylinder water capacity in liters to the
// equivalent LPG mass in kilograms. Deposit rates are keyed by kilograms;
// liter capacities are converted once here at the lookup boundary.
var GasDensityKgPerL = decimal.NewFromFloat(0.51)

// DepositRateResolver looks up the refundable deposit for a cylinder size.
type DepositRateResolver struct {
	repo Repository
}

// NewDepositRateResolver returns a resolver backed by the given repository.
func NewDepositRateResolver(repo Repository) *DepositRateResolver {
	return &DepositRateResolver{repo: repo}
}

// DepositParams identifies the cylinder size to look up. Exactly one of
// CapacityKg or CapacityL should be set; when both are present kilograms
// win.
type DepositParams struct {
	CapacityKg *decimal.Decimal
	CapacityL  *decimal.Decimal
	Currency   enums.Currency
	AsOf       time.Time
}

func (p DepositParams) capacityKg() decimal.Decimal {
	if p.CapacityKg != nil {
		return *p.CapacityKg
	}
	if p.CapacityL != nil {
		return p.CapacityL.Mul(GasDensityKgPerL)
	}
	return decimal.Zero
}

// ResolveRate returns the deposit rate for the requested capacity. An exact
// capacity match wins; otherwise the active rate with the closest capacity
// applies. No active rates means the cylinder carries no deposit and the
// result is nil with nil error.
func (r *DepositRateResolver) ResolveRate(ctx context.Context, params DepositParams) (*models.CylinderDepositRate, error) {
	capacity := params.capacityKg()
	if !capacity.IsPositive() {
		return nil, nil
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.DefaultCurrency
	}
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	rates, err := r.repo.FindDepositRates(ctx, currency, asOf)
	if err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}

	var best *models.CylinderDepositRate
	var bestDistance decimal.Decimal
	for i := range rates {
		rate := rates[i]
		distance := rate.CapacityKg.Sub(capacity).Abs()
		if distance.IsZero() {
			return &rate, nil
		}
		if best == nil || distance.LessThan(bestDistance) {
			best = &rates[i]
			bestDistance = distance
		}
	}
	return best, nil
}

// Resolve returns the deposit amount for the requested capacity, zero when
// no rate applies.
func (r *DepositRateResolver) Resolve(ctx context.Context, params DepositParams) (decimal.Decimal, error) {
	rate, err := r.ResolveRate(ctx, params)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, nil
	}
	return rate.Amount, nil
}
