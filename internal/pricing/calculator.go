package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// tierThresholds is the quantity discount schedule, largest first.
var tierThresholds = []struct {
	MinQuantity int
	DiscountPct decimal.Decimal
}{
	{100, decimal.NewFromInt(15)},
	{50, decimal.NewFromInt(10)},
	{20, decimal.NewFromInt(5)},
	{10, decimal.NewFromInt(2)},
}

// TierDiscountPercent returns the volume discount for a quantity. Quantities
// below the first threshold earn nothing.
func TierDiscountPercent(quantity int) decimal.Decimal {
	for _, tier := range tierThresholds {
		if quantity >= tier.MinQuantity {
			return tier.DiscountPct
		}
	}
	return decimal.Zero
}

// ApplySurcharge adjusts a unit price by a percentage surcharge (negative
// values discount). A nil surcharge leaves the price untouched.
func ApplySurcharge(unitPrice decimal.Decimal, surchargePct *decimal.Decimal) decimal.Decimal {
	if surchargePct == nil || surchargePct.IsZero() {
		return unitPrice
	}
	factor := oneHundred.Add(*surchargePct).Div(oneHundred)
	return unitPrice.Mul(factor)
}

// CalcParams feeds a single method calculation. UnitPrice is the base price
// from the resolved entry; SourcePrice carries the referenced list's price
// for markup and copy methods.
type CalcParams struct {
	Method       enums.PricingMethod
	UnitPrice    decimal.Decimal
	SurchargePct *decimal.Decimal
	Quantity     int
	MinQty       *int
	MarkupPct    *decimal.Decimal
	SourcePrice  *decimal.Decimal
}

// Calculate prices a line using the given method. Quantity must be positive
// and the effective unit price non-negative; minimum quantity shortfalls
// surface as a coded error carrying both quantities.
func Calculate(params CalcParams) (Quote, error) {
	if params.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": params.Quantity})
	}
	if !params.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported pricing method %q", params.Method))
	}
	if params.MinQty != nil && params.Quantity < *params.MinQty {
		return nil, pkgerrors.New(pkgerrors.CodeMinQuantity, "quantity below price list minimum").
			WithDetails(map[string]any{
				"quantity":     params.Quantity,
				"min_quantity": *params.MinQty,
			})
	}

	switch params.Method {
	case enums.PricingMethodFlatUnit:
		return flatUnit(params)
	case enums.PricingMethodFlatRate:
		return flatRate(params)
	case enums.PricingMethodTiered:
		return tiered(params)
	case enums.PricingMethodMarkup, enums.PricingMethodCopyFromList:
		return markup(params)
	case enums.PricingMethodPerKg, enums.PricingMethodPerKgPartial:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight based methods require product weight data").
			WithDetails(map[string]any{"method": params.Method})
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported pricing method %q", params.Method))
	}
}

func checkBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative").
			WithDetails(map[string]any{"unit_price": price.String()})
	}
	return nil
}

func flatUnit(params CalcParams) (Quote, error) {
	if err := checkBasePrice(params.UnitPrice); err != nil {
		return nil, err
	}
	final := ApplySurcharge(params.UnitPrice, params.SurchargePct)
	return FlatUnitQuote{
		UnitPrice:      params.UnitPrice,
		SurchargePct:   derefPct(params.SurchargePct),
		FinalUnitPrice: final,
		Quantity:       params.Quantity,
		LineTotal:      final.Mul(decimal.NewFromInt(int64(params.Quantity))),
	}, nil
}

func flatRate(params CalcParams) (Quote, error) {
	if err := checkBasePrice(params.UnitPrice); err != nil {
		return nil, err
	}
	final := ApplySurcharge(params.UnitPrice, params.SurchargePct)
	return FlatRateQuote{
		UnitPrice:      params.UnitPrice,
		SurchargePct:   derefPct(params.SurchargePct),
		FinalUnitPrice: final,
		Quantity:       params.Quantity,
	}, nil
}

func tiered(params CalcParams) (Quote, error) {
	if err := checkBasePrice(params.UnitPrice); err != nil {
		return nil, err
	}
	final := ApplySurcharge(params.UnitPrice, params.SurchargePct)
	discountPct := TierDiscountPercent(params.Quantity)
	discounted := final.Mul(oneHundred.Sub(discountPct)).Div(oneHundred)
	return TieredQuote{
		UnitPrice:           params.UnitPrice,
		SurchargePct:        derefPct(params.SurchargePct),
		FinalUnitPrice:      final,
		DiscountPct:         discountPct,
		DiscountedUnitPrice: discounted,
		Quantity:            params.Quantity,
		LineTotal:           discounted.Mul(decimal.NewFromInt(int64(params.Quantity))),
	}, nil
}

func markup(params CalcParams) (Quote, error) {
	if params.SourcePrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source price required for derived pricing").
			WithDetails(map[string]any{"method": params.Method})
	}
	if err := checkBasePrice(*params.SourcePrice); err != nil {
		return nil, err
	}
	markupPct := derefPct(params.MarkupPct)
	unit := params.SourcePrice.Mul(oneHundred.Add(markupPct)).Div(oneHundred)
	final := ApplySurcharge(unit, params.SurchargePct)
	return MarkupQuote{
		SourcePrice:    *params.SourcePrice,
		MarkupPct:      markupPct,
		UnitPrice:      unit,
		SurchargePct:   derefPct(params.SurchargePct),
		FinalUnitPrice: final,
		Quantity:       params.Quantity,
		LineTotal:      final.Mul(decimal.NewFromInt(int64(params.Quantity))),
		SourceMethod:   params.Method,
	}, nil
}

func derefPct(pct *decimal.Decimal) decimal.Decimal {
	if pct == nil {
		return decimal.Zero
	}
	return *pct
}
