package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

// WeightBasedPricer prices gas fills from the cylinder's net gas weight and
// a per-kilogram rate.
type WeightBasedPricer struct {
	repo     Repository
	resolver *PriceListResolver
	deposits *DepositRateResolver
}

// NewWeightBasedPricer wires a pricer from its collaborators.
func NewWeightBasedPricer(repo Repository, resolver *PriceListResolver, deposits *DepositRateResolver) *WeightBasedPricer {
	return &WeightBasedPricer{repo: repo, resolver: resolver, deposits: deposits}
}

// WeightPriceParams configures one weight based quote. FillPercent below 100
// prices a partial fill; IncludeDeposit controls whether the refundable
// deposit joins the subtotal, which refill and exchange flows switch off.
type WeightPriceParams struct {
	ProductID      uuid.UUID
	Quantity       int
	AsOf           time.Time
	FillPercent    *decimal.Decimal
	IncludeDeposit bool
	Currency       enums.Currency
}

// Price builds a weight based quote for the product. The method only applies
// to gas-fill variants with weight data and an active per-kilogram price
// list entry; any missing precondition yields a nil quote with nil error so
// callers can fall back to unit pricing.
func (p *WeightBasedPricer) Price(ctx context.Context, params WeightPriceParams) (*WeightQuote, error) {
	if params.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": params.Quantity})
	}
	if params.FillPercent != nil {
		if !params.FillPercent.IsPositive() || params.FillPercent.GreaterThan(oneHundred) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "fill percent must be in (0, 100]").
				WithDetails(map[string]any{"fill_percent": params.FillPercent.String()})
		}
	}

	product, err := p.repo.FindProduct(ctx, params.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, nil
	}
	if !product.Variant.GasFillEligible() {
		return nil, nil
	}
	product, err = p.withParentAttributes(ctx, product)
	if err != nil {
		return nil, err
	}
	if !product.HasWeightData() {
		return nil, nil
	}

	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	perKgMethod := enums.PricingMethodPerKg
	resolved, err := p.resolver.Resolve(ctx, ResolveParams{
		ProductID: params.ProductID,
		AsOf:      asOf,
		Method:    &perKgMethod,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve per-kg price list")
	}
	if resolved == nil || resolved.Item.PricePerKg == nil {
		return nil, nil
	}

	perKg := ApplySurcharge(*resolved.Item.PricePerKg, resolved.Item.SurchargePct)
	if !perKg.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "per-kg price must be positive").
			WithDetails(map[string]any{
				"price_list_id": resolved.List.ID,
				"price_per_kg":  perKg.String(),
			})
	}

	netWeight := *product.NetGasWeightKg
	method := enums.PricingMethodPerKg
	adjusted := netWeight
	fillPct := oneHundred
	if params.FillPercent != nil && params.FillPercent.LessThan(oneHundred) {
		fillPct = *params.FillPercent
		adjusted = netWeight.Mul(fillPct).Div(oneHundred)
		method = enums.PricingMethodPerKgPartial
	}

	quantity := decimal.NewFromInt(int64(params.Quantity))
	gasCharge := adjusted.Mul(perKg).Mul(quantity)

	deposit := decimal.Zero
	if params.IncludeDeposit {
		perUnit, err := p.deposits.Resolve(ctx, DepositParams{
			CapacityKg: product.CapacityKg,
			CapacityL:  product.CapacityL,
			Currency:   resolved.List.Currency,
			AsOf:       asOf,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve deposit rate")
		}
		deposit = perUnit.Mul(quantity)
	}

	subtotal := gasCharge.Add(deposit)
	taxRate := productTaxRate(product)
	taxAmount := subtotal.Mul(taxRate).Div(oneHundred)

	return &WeightQuote{
		ProductID:        product.ID,
		Quantity:         params.Quantity,
		NetGasWeightKg:   netWeight,
		AdjustedWeightKg: adjusted,
		FillPercent:      fillPct,
		GasPricePerKg:    perKg,
		GasCharge:        gasCharge,
		DepositAmount:    deposit,
		Subtotal:         subtotal,
		TaxRate:          taxRate,
		TaxAmount:        taxAmount,
		TotalPrice:       subtotal.Add(taxAmount),
		Currency:         resolved.List.Currency,
		PricingMethod:    method,
		PriceListID:      resolved.List.ID,
	}, nil
}

// withParentAttributes fills missing weight and tax attributes from the
// parent product so variants inherit what they do not override.
func (p *WeightBasedPricer) withParentAttributes(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ParentProductID == nil {
		return product, nil
	}
	if product.HasWeightData() && product.TaxRate != nil {
		return product, nil
	}
	parent, err := p.repo.FindParentProduct(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent product")
	}
	if parent == nil {
		return product, nil
	}
	merged := *product
	if merged.NetGasWeightKg == nil {
		merged.NetGasWeightKg = parent.NetGasWeightKg
	}
	if merged.CapacityKg == nil {
		merged.CapacityKg = parent.CapacityKg
	}
	if merged.CapacityL == nil {
		merged.CapacityL = parent.CapacityL
	}
	if merged.GrossWeightKg == nil {
		merged.GrossWeightKg = parent.GrossWeightKg
	}
	if merged.TareWeightKg == nil {
		merged.TareWeightKg = parent.TareWeightKg
	}
	if merged.TaxRate == nil {
		merged.TaxRate = parent.TaxRate
	}
	return &merged, nil
}

// productTaxRate reads the product's tax rate, defaulting to zero.
func productTaxRate(product *models.Product) decimal.Decimal {
	if product.TaxRate != nil {
		return *product.TaxRate
	}
	return decimal.Zero
}
