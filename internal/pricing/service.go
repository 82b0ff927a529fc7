package pricing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	"github.com/jasiri-energy/gasline-backend/pkg/metrics"
	"github.com/jasiri-energy/gasline-backend/pkg/redis"
)

// priceMatchTolerance is the largest absolute difference between a requested
// and a resolved price that still validates.
var priceMatchTolerance = decimal.NewFromFloat(0.01)

// ServiceParams groups dependencies for the pricing service. Redis is
// optional; without it quote caching is disabled.
type ServiceParams struct {
	Repo         Repository
	Logger       *logger.Logger
	Metrics      *metrics.PricingMetrics
	Redis        *redis.Client
	QuoteTTL     time.Duration
	BaseCurrency enums.Currency
}

// Service is the pricing facade. It owns the resolver, calculator and
// scenario pricers and is the only entry point other packages use.
type Service struct {
	repo      Repository
	resolver  *PriceListResolver
	deposits  *DepositRateResolver
	weights   *WeightBasedPricer
	credits   *EmptyReturnCreditCalculator
	orderFlow *OrderFlowPricer
	cache     *quoteCache
	logg      *logger.Logger
	metrics   *metrics.PricingMetrics
	currency  enums.Currency
}

// NewService builds a pricing service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	currency := params.BaseCurrency
	if currency == "" {
		currency = enums.DefaultCurrency
	}

	resolver := NewPriceListResolver(params.Repo)
	deposits := NewDepositRateResolver(params.Repo)
	weights := NewWeightBasedPricer(params.Repo, resolver, deposits)
	credits := NewEmptyReturnCreditCalculator(deposits)
	orderFlow := NewOrderFlowPricer(params.Repo, weights, deposits, credits, resolver)

	return &Service{
		repo:      params.Repo,
		resolver:  resolver,
		deposits:  deposits,
		weights:   weights,
		credits:   credits,
		orderFlow: orderFlow,
		cache:     newQuoteCache(params.Redis, params.QuoteTTL, params.Metrics),
		logg:      params.Logger,
		metrics:   params.Metrics,
		currency:  currency,
	}, nil
}

// CalculateFinalPrice applies the optional percentage surcharge to a unit
// price. Pure computation, no lookups.
func (s *Service) CalculateFinalPrice(unitPrice decimal.Decimal, surchargePct *decimal.Decimal) decimal.Decimal {
	return ApplySurcharge(unitPrice, surchargePct)
}

// MethodPriceParams configures a method-aware price calculation. For markup
// and copy methods without an explicit SourcePrice, the source price is
// resolved from SourceListID (or the product's default list) at AsOf.
type MethodPriceParams struct {
	Method       enums.PricingMethod
	UnitPrice    decimal.Decimal
	SurchargePct *decimal.Decimal
	Quantity     int
	MinQty       *int
	MarkupPct    *decimal.Decimal
	SourcePrice  *decimal.Decimal
	SourceListID *uuid.UUID
	ProductID    uuid.UUID
	AsOf         time.Time
}

// CalculateFinalPriceWithMethod prices a line under any non-weight method.
func (s *Service) CalculateFinalPriceWithMethod(ctx context.Context, params MethodPriceParams) (Quote, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("calculate_with_method", time.Since(start)) }()

	calc := CalcParams{
		Method:       params.Method,
		UnitPrice:    params.UnitPrice,
		SurchargePct: params.SurchargePct,
		Quantity:     params.Quantity,
		MinQty:       params.MinQty,
		MarkupPct:    params.MarkupPct,
		SourcePrice:  params.SourcePrice,
	}

	derived := params.Method == enums.PricingMethodMarkup || params.Method == enums.PricingMethodCopyFromList
	if derived && calc.SourcePrice == nil {
		if params.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required to resolve source price")
		}
		resolved, err := s.resolver.Resolve(ctx, ResolveParams{
			ProductID:   params.ProductID,
			AsOf:        params.AsOf,
			PriceListID: params.SourceListID,
		})
		if err != nil {
			s.metrics.IncRequest("calculate_with_method", "error")
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve source price list")
		}
		if resolved == nil {
			s.metrics.IncNotApplicable("calculate_with_method")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no source price list for product").
				WithDetails(map[string]any{"product_id": params.ProductID})
		}
		base, ok := resolved.Item.BasePrice()
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "source price list item carries no price").
				WithDetails(map[string]any{"price_list_id": resolved.List.ID})
		}
		calc.SourcePrice = &base
	}

	quote, err := Calculate(calc)
	if err != nil {
		s.metrics.IncRequest("calculate_with_method", "error")
		return nil, err
	}
	s.metrics.IncRequest("calculate_with_method", "ok")
	return quote, nil
}

// GetWeightBasedPrice returns the full gas-fill breakdown for a product, or
// nil when weight pricing does not apply. IncludeDeposit is honored as given.
func (s *Service) GetWeightBasedPrice(ctx context.Context, params WeightPriceParams) (*WeightQuote, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("weight_price", time.Since(start)) }()

	quote, err := s.weights.Price(ctx, params)
	if err != nil {
		s.metrics.IncRequest("weight_price", "error")
		return nil, err
	}
	if quote == nil {
		s.metrics.IncNotApplicable("weight_price")
		return nil, nil
	}
	s.metrics.IncRequest("weight_price", "ok")
	return quote, nil
}

// CalculateWeightBasedTotal returns just the total for a gas fill, zero when
// weight pricing does not apply.
func (s *Service) CalculateWeightBasedTotal(ctx context.Context, params WeightPriceParams) (decimal.Decimal, error) {
	quote, err := s.GetWeightBasedPrice(ctx, params)
	if err != nil {
		return decimal.Zero, err
	}
	if quote == nil {
		return decimal.Zero, nil
	}
	return quote.TotalPrice, nil
}

// GetPriceParams narrows a product price lookup.
type GetPriceParams struct {
	ProductID   uuid.UUID
	AsOf        time.Time
	PriceListID *uuid.UUID
	Method      *enums.PricingMethod
}

// GetProductPrice resolves the applicable price list entry for a product and
// returns its pricing terms. Results are cached briefly when Redis is
// configured; explicit price list pins bypass the cache.
func (s *Service) GetProductPrice(ctx context.Context, params GetPriceParams) (*ProductPrice, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("product_price", time.Since(start)) }()

	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	methodKey := ""
	if params.Method != nil {
		methodKey = string(*params.Method)
	}
	cacheable := params.PriceListID == nil
	if cacheable {
		if cached := s.cache.get(ctx, params.ProductID, asOf, methodKey); cached != nil {
			return cached, nil
		}
	}

	resolved, err := s.resolver.Resolve(ctx, ResolveParams{
		ProductID:   params.ProductID,
		AsOf:        asOf,
		PriceListID: params.PriceListID,
		Method:      params.Method,
	})
	if err != nil {
		s.metrics.IncRequest("product_price", "error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve price list")
	}
	if resolved == nil {
		s.metrics.IncNotApplicable("product_price")
		return nil, nil
	}

	price := &ProductPrice{
		ProductID:     params.ProductID,
		PriceListID:   resolved.List.ID,
		PriceListName: resolved.List.Name,
		PricingMethod: resolved.List.PricingMethod,
		UnitPrice:     resolved.Item.UnitPrice,
		PricePerKg:    resolved.Item.PricePerKg,
		SurchargePct:  resolved.Item.SurchargePct,
		MinQty:        resolved.Item.MinQty,
		Currency:      resolved.List.Currency,
		AsOf:          asOf,
	}
	if cacheable {
		s.cache.put(ctx, price, methodKey)
	}
	s.metrics.IncRequest("product_price", "ok")
	return price, nil
}

// GetProductPrices resolves prices for many products concurrently. Results
// are keyed by product id; per-product failures are carried in the result
// and never abort the batch.
func (s *Service) GetProductPrices(ctx context.Context, productIDs []uuid.UUID, asOf time.Time) map[uuid.UUID]BatchPriceResult {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("product_prices_batch", time.Since(start)) }()

	results := make(map[uuid.UUID]BatchPriceResult, len(productIDs))
	if len(productIDs) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	seen := make(map[uuid.UUID]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		wg.Add(1)
		go func(productID uuid.UUID) {
			defer wg.Done()
			price, err := s.GetProductPrice(ctx, GetPriceParams{ProductID: productID, AsOf: asOf})
			mu.Lock()
			results[productID] = BatchPriceResult{ProductID: productID, Price: price, Err: err}
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return results
}

// CalculateOrderTotals sums priced lines; each line's own tax is trusted.
func (s *Service) CalculateOrderTotals(ctx context.Context, lines []OrderLine, taxPctOverride *decimal.Decimal) (*OrderTotals, error) {
	return AggregateTotals(TotalsParams{Lines: lines, TaxPctOverride: taxPctOverride})
}

// CalculateOrderTotalsWithDeposits fills in missing deposits before summing.
// Lines for deposit-charging scenarios that arrived without a deposit get
// one resolved from the product's capacity; lines already carrying deposits
// are left alone.
func (s *Service) CalculateOrderTotalsWithDeposits(ctx context.Context, lines []OrderLine, taxPctOverride *decimal.Decimal) (*OrderTotals, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("order_totals_with_deposits", time.Since(start)) }()

	enriched := make([]OrderLine, len(lines))
	copy(enriched, lines)
	for i := range enriched {
		line := &enriched[i]
		if !line.Scenario.ChargesDeposit() || !line.DepositAmount.IsZero() {
			continue
		}
		product, err := s.repo.FindProduct(ctx, line.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if product == nil {
			continue
		}
		perUnit, err := s.deposits.Resolve(ctx, DepositParams{
			CapacityKg: product.CapacityKg,
			CapacityL:  product.CapacityL,
			Currency:   line.Currency,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve deposit rate")
		}
		if perUnit.IsZero() {
			continue
		}
		deposit := perUnit.Mul(decimal.NewFromInt(int64(line.Quantity)))
		line.DepositAmount = line.DepositAmount.Add(deposit)
		line.Subtotal = line.Subtotal.Add(deposit)
		line.LineTotal = line.LineTotal.Add(deposit)
	}
	return AggregateTotals(TotalsParams{Lines: enriched, TaxPctOverride: taxPctOverride})
}

// CalculateEmptyReturnCredit computes the refund for returned empties.
func (s *Service) CalculateEmptyReturnCredit(ctx context.Context, params CreditParams) (*EmptyReturnCredit, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("empty_return_credit", time.Since(start)) }()
	return s.credits.Calculate(ctx, params)
}

// OrderFlowRequest prices a whole order of scenario lines.
type OrderFlowRequest struct {
	Lines          []OrderFlowParams
	TaxPctOverride *decimal.Decimal
}

// OrderFlowResult carries the priced lines and their aggregate totals.
type OrderFlowResult struct {
	Lines  []OrderLine
	Totals OrderTotals
}

// CalculateOrderFlow prices each line per its scenario and aggregates the
// totals. A single invalid line fails the whole calculation since order
// pricing is all or nothing.
func (s *Service) CalculateOrderFlow(ctx context.Context, req OrderFlowRequest) (*OrderFlowResult, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("order_flow", time.Since(start)) }()

	if len(req.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no lines")
	}
	lines := make([]OrderLine, 0, len(req.Lines))
	for i, params := range req.Lines {
		ctx := s.logg.WithScenario(s.logg.WithProductID(ctx, params.ProductID.String()), string(params.Scenario))
		line, err := s.orderFlow.Price(ctx, params)
		if err != nil {
			s.metrics.IncRequest("order_flow", "error")
			s.logg.Error(s.logg.WithField(ctx, "line", i), "price order line", err)
			return nil, err
		}
		lines = append(lines, *line)
	}
	totals, err := AggregateTotals(TotalsParams{Lines: lines, TaxPctOverride: req.TaxPctOverride})
	if err != nil {
		s.metrics.IncRequest("order_flow", "error")
		return nil, err
	}
	s.metrics.IncRequest("order_flow", "ok")
	return &OrderFlowResult{Lines: lines, Totals: *totals}, nil
}

// ValidatePriceParams checks a requested price against the resolved one.
type ValidatePriceParams struct {
	ProductID      uuid.UUID
	RequestedPrice decimal.Decimal
	AsOf           time.Time
}

// ValidateProductPricing compares a requested price with the currently
// resolved price. Differences beyond the fixed tolerance fail with a price
// mismatch error carrying both amounts; a product with no resolved price
// returns nil since there is nothing to compare against.
func (s *Service) ValidateProductPricing(ctx context.Context, params ValidatePriceParams) (*PriceValidation, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("validate_pricing", time.Since(start)) }()

	if !params.RequestedPrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requested price must be positive").
			WithDetails(map[string]any{"requested_price": params.RequestedPrice.String()})
	}
	price, err := s.GetProductPrice(ctx, GetPriceParams{ProductID: params.ProductID, AsOf: params.AsOf})
	if err != nil {
		return nil, err
	}
	if price == nil || price.UnitPrice == nil {
		s.metrics.IncNotApplicable("validate_pricing")
		return nil, nil
	}

	resolved := ApplySurcharge(*price.UnitPrice, price.SurchargePct)
	difference := params.RequestedPrice.Sub(resolved).Abs()
	if difference.GreaterThan(priceMatchTolerance) {
		s.metrics.IncRequest("validate_pricing", "mismatch")
		return nil, pkgerrors.New(pkgerrors.CodePriceMismatch, "requested price does not match current pricing").
			WithDetails(map[string]any{
				"requested_price": params.RequestedPrice.String(),
				"resolved_price":  resolved.String(),
				"difference":      difference.String(),
			})
	}
	s.metrics.IncRequest("validate_pricing", "ok")
	return &PriceValidation{
		ProductID:      params.ProductID,
		RequestedPrice: params.RequestedPrice,
		ResolvedPrice:  resolved,
		Difference:     difference,
		Valid:          true,
	}, nil
}

// GetPricingStats summarizes the pricing dataset as of now.
func (s *Service) GetPricingStats(ctx context.Context) (*Stats, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDuration("pricing_stats", time.Since(start)) }()

	asOf := time.Now().UTC()
	active, err := s.repo.CountPriceLists(ctx, asOf, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active price lists")
	}
	total, err := s.repo.CountPriceLists(ctx, asOf, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count price lists")
	}
	priced, err := s.repo.CountPricedProducts(ctx, asOf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count priced products")
	}
	depositRates, err := s.repo.CountActiveDepositRates(ctx, asOf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count deposit rates")
	}
	defaults, err := s.repo.ListDefaultPriceListIDs(ctx, asOf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list default price lists")
	}
	return &Stats{
		ActivePriceLists:    active,
		TotalPriceLists:     total,
		PricedProducts:      priced,
		ActiveDepositRates:  depositRates,
		DefaultPriceListIDs: defaults,
		AsOf:                asOf,
	}, nil
}
