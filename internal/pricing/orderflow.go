package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

// OrderFlowPricer prices one order line end to end for a given scenario,
// combining weight based pricing, deposits and return credits.
type OrderFlowPricer struct {
	repo     Repository
	weights  *WeightBasedPricer
	deposits *DepositRateResolver
	credits  *EmptyReturnCreditCalculator
	resolver *PriceListResolver
}

// NewOrderFlowPricer wires the pricer from its collaborators.
func NewOrderFlowPricer(repo Repository, weights *WeightBasedPricer, deposits *DepositRateResolver, credits *EmptyReturnCreditCalculator, resolver *PriceListResolver) *OrderFlowPricer {
	return &OrderFlowPricer{
		repo:     repo,
		weights:  weights,
		deposits: deposits,
		credits:  credits,
		resolver: resolver,
	}
}

// OrderFlowParams describes one order line to price. Return fields only
// matter when IncludeReturnCredit is set on a refill or exchange, or on any
// pickup.
type OrderFlowParams struct {
	ProductID           uuid.UUID
	Quantity            int
	Scenario            enums.OrderScenario
	AsOf                time.Time
	FillPercent         *decimal.Decimal
	IncludeReturnCredit bool
	ReturnCondition     *enums.CylinderCondition
	ReturnedAt          *time.Time
	ExpectedBy          *time.Time
	Currency            enums.Currency
}

// Price builds the order line for the scenario:
//
//   - outright: gas charge plus deposit, the customer keeps the cylinder
//   - refill: gas charge only, the cylinder already carries a deposit
//   - exchange: gas charge only, plus an optional credit for the returned
//     empty when the caller opts in
//   - pickup: no sale, just the return credit as a negative line
//
// Opt-in credits are attached to the line as a separate signed amount, not
// subtracted from the charge; only pickup lines net the credit into the
// total.
//
// Products without weight data fall back to flat unit pricing from the
// resolved price list.
func (p *OrderFlowPricer) Price(ctx context.Context, params OrderFlowParams) (*OrderLine, error) {
	if !params.Scenario.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order scenario").
			WithDetails(map[string]any{"scenario": params.Scenario})
	}
	if params.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": params.Quantity})
	}
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	if params.Scenario == enums.OrderScenarioPickup {
		return p.pickupLine(ctx, params, asOf)
	}

	line, err := p.saleLine(ctx, params, asOf)
	if err != nil {
		return nil, err
	}

	creditEligible := params.Scenario == enums.OrderScenarioRefill || params.Scenario == enums.OrderScenarioExchange
	if creditEligible && params.IncludeReturnCredit {
		if params.ReturnCondition == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "return condition required for return credit")
		}
		credit, err := p.returnCredit(ctx, params, asOf, line.Currency)
		if err != nil {
			return nil, err
		}
		line.Credit = credit
	}
	return line, nil
}

func (p *OrderFlowPricer) saleLine(ctx context.Context, params OrderFlowParams, asOf time.Time) (*OrderLine, error) {
	quote, err := p.weights.Price(ctx, WeightPriceParams{
		ProductID:      params.ProductID,
		Quantity:       params.Quantity,
		AsOf:           asOf,
		FillPercent:    params.FillPercent,
		IncludeDeposit: params.Scenario.ChargesDeposit(),
		Currency:       params.Currency,
	})
	if err != nil {
		return nil, err
	}
	if quote != nil {
		return &OrderLine{
			ProductID:     params.ProductID,
			Quantity:      params.Quantity,
			Scenario:      params.Scenario,
			PricingMethod: quote.PricingMethod,
			GasCharge:     quote.GasCharge,
			DepositAmount: quote.DepositAmount,
			Subtotal:      quote.Subtotal,
			TaxAmount:     quote.TaxAmount,
			LineTotal:     quote.TotalPrice,
			Currency:      quote.Currency,
		}, nil
	}
	return p.flatUnitLine(ctx, params, asOf)
}

// flatUnitLine is the fallback when weight based pricing does not apply. It
// resolves the product's price list entry without a method filter and
// charges unit price times quantity, plus deposit for outright sales.
func (p *OrderFlowPricer) flatUnitLine(ctx context.Context, params OrderFlowParams, asOf time.Time) (*OrderLine, error) {
	resolved, err := p.resolver.Resolve(ctx, ResolveParams{
		ProductID: params.ProductID,
		AsOf:      asOf,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve price list")
	}
	if resolved == nil || resolved.Item.UnitPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price for product").
			WithDetails(map[string]any{"product_id": params.ProductID})
	}

	quote, err := Calculate(CalcParams{
		Method:       enums.PricingMethodFlatUnit,
		UnitPrice:    *resolved.Item.UnitPrice,
		SurchargePct: resolved.Item.SurchargePct,
		Quantity:     params.Quantity,
		MinQty:       resolved.Item.MinQty,
	})
	if err != nil {
		return nil, err
	}
	gasCharge := quote.Total()

	product, err := p.repo.FindProduct(ctx, params.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	deposit := decimal.Zero
	if params.Scenario.ChargesDeposit() && product != nil {
		perUnit, err := p.deposits.Resolve(ctx, DepositParams{
			CapacityKg: product.CapacityKg,
			CapacityL:  product.CapacityL,
			Currency:   resolved.List.Currency,
			AsOf:       asOf,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve deposit rate")
		}
		deposit = perUnit.Mul(decimal.NewFromInt(int64(params.Quantity)))
	}

	subtotal := gasCharge.Add(deposit)
	taxRate := decimal.Zero
	if product != nil && product.TaxRate != nil {
		taxRate = *product.TaxRate
	}
	taxAmount := subtotal.Mul(taxRate).Div(oneHundred)

	return &OrderLine{
		ProductID:     params.ProductID,
		Quantity:      params.Quantity,
		Scenario:      params.Scenario,
		PricingMethod: enums.PricingMethodFlatUnit,
		GasCharge:     gasCharge,
		DepositAmount: deposit,
		Subtotal:      subtotal,
		TaxAmount:     taxAmount,
		LineTotal:     subtotal.Add(taxAmount),
		Currency:      resolved.List.Currency,
	}, nil
}

func (p *OrderFlowPricer) pickupLine(ctx context.Context, params OrderFlowParams, asOf time.Time) (*OrderLine, error) {
	if params.ReturnCondition == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return condition required for pickup")
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.DefaultCurrency
	}
	credit, err := p.returnCredit(ctx, params, asOf, currency)
	if err != nil {
		return nil, err
	}
	line := &OrderLine{
		ProductID:     params.ProductID,
		Quantity:      params.Quantity,
		Scenario:      params.Scenario,
		PricingMethod: enums.PricingMethodFlatUnit,
		GasCharge:     decimal.Zero,
		DepositAmount: decimal.Zero,
		Subtotal:      decimal.Zero,
		TaxAmount:     decimal.Zero,
		LineTotal:     decimal.Zero,
		Currency:      currency,
	}
	if credit != nil {
		line.Credit = credit
		line.LineTotal = credit.NetCredit.Neg()
		line.Currency = credit.Currency
	}
	return line, nil
}

func (p *OrderFlowPricer) returnCredit(ctx context.Context, params OrderFlowParams, asOf time.Time, currency enums.Currency) (*EmptyReturnCredit, error) {
	product, err := p.repo.FindProduct(ctx, params.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_id": params.ProductID})
	}
	capacity := decimal.Zero
	if product.CapacityKg != nil {
		capacity = *product.CapacityKg
	} else if product.CapacityL != nil {
		capacity = product.CapacityL.Mul(GasDensityKgPerL)
	}
	if !capacity.IsPositive() {
		return nil, nil
	}
	returnedAt := asOf
	if params.ReturnedAt != nil {
		returnedAt = *params.ReturnedAt
	}
	return p.credits.Calculate(ctx, CreditParams{
		CapacityKg: capacity,
		Quantity:   params.Quantity,
		Condition:  *params.ReturnCondition,
		ReturnedAt: returnedAt,
		ExpectedBy: params.ExpectedBy,
		Currency:   currency,
	})
}
