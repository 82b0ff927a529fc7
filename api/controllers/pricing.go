package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/api/responses"
	"github.com/jasiri-energy/gasline-backend/api/validators"
	"github.com/jasiri-energy/gasline-backend/internal/pricing"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
)

type methodQuoteRequest struct {
	Method       string           `json:"method" validate:"required"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	SurchargePct *decimal.Decimal `json:"surcharge_pct,omitempty"`
	Quantity     int              `json:"quantity" validate:"required,min=1"`
	MinQty       *int             `json:"min_qty,omitempty"`
	MarkupPct    *decimal.Decimal `json:"markup_pct,omitempty"`
	SourcePrice  *decimal.Decimal `json:"source_price,omitempty"`
	SourceListID *string          `json:"source_list_id,omitempty"`
	ProductID    *string          `json:"product_id,omitempty"`
	AsOf         *time.Time       `json:"as_of,omitempty"`
	Currency     *string          `json:"currency,omitempty"`
}

// PricingMethodQuote prices a line under any non-weight pricing method.
func PricingMethodQuote(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload methodQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePricingMethod(strings.TrimSpace(payload.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pricing method"))
			return
		}
		currency, err := parseOptionalCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricing.MethodPriceParams{
			Method:       method,
			UnitPrice:    payload.UnitPrice,
			SurchargePct: payload.SurchargePct,
			Quantity:     payload.Quantity,
			MinQty:       payload.MinQty,
			MarkupPct:    payload.MarkupPct,
			SourcePrice:  payload.SourcePrice,
		}
		if payload.AsOf != nil {
			params.AsOf = *payload.AsOf
		}
		if payload.ProductID != nil {
			id, parseErr := parseUUIDField(*payload.ProductID, "product_id")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			params.ProductID = id
		}
		if payload.SourceListID != nil {
			id, parseErr := parseUUIDField(*payload.SourceListID, "source_list_id")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			params.SourceListID = &id
		}

		quote, err := svc.CalculateFinalPriceWithMethod(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote, currency))
	}
}

type weightQuoteRequest struct {
	ProductID      string           `json:"product_id" validate:"required"`
	Quantity       int              `json:"quantity" validate:"required,min=1"`
	AsOf           *time.Time       `json:"as_of,omitempty"`
	FillPercent    *decimal.Decimal `json:"fill_percent,omitempty"`
	IncludeDeposit *bool            `json:"include_deposit,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
}

// PricingWeightQuote prices a gas fill by weight. Products that do not
// qualify for weight based pricing get a not-found response rather than a
// silent fallback; callers wanting unit fallback use the order-flow endpoint.
func PricingWeightQuote(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload weightQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseUUIDField(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		currency, err := parseOptionalCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricing.WeightPriceParams{
			ProductID:      productID,
			Quantity:       payload.Quantity,
			FillPercent:    payload.FillPercent,
			IncludeDeposit: true,
			Currency:       currency,
		}
		if payload.AsOf != nil {
			params.AsOf = *payload.AsOf
		}
		if payload.IncludeDeposit != nil {
			params.IncludeDeposit = *payload.IncludeDeposit
		}

		quote, err := svc.GetWeightBasedPrice(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if quote == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "weight based pricing not applicable").
				WithDetails(map[string]any{"product_id": productID}))
			return
		}

		responses.WriteSuccess(w, weightQuoteResponseFrom(quote))
	}
}

// ProductPriceFetch resolves the current price for one product.
func ProductPriceFetch(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDField(chi.URLParam(r, "productId"), "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricing.GetPriceParams{ProductID: productID}

		if raw := strings.TrimSpace(r.URL.Query().Get("as_of")); raw != "" {
			asOf, parseErr := time.Parse("2006-01-02", raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "as_of must be YYYY-MM-DD"))
				return
			}
			params.AsOf = asOf
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("price_list_id")); raw != "" {
			listID, parseErr := parseUUIDField(raw, "price_list_id")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			params.PriceListID = &listID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("method")); raw != "" {
			method, parseErr := enums.ParsePricingMethod(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid pricing method"))
				return
			}
			params.Method = &method
		}

		price, err := svc.GetProductPrice(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if price == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price for product").
				WithDetails(map[string]any{"product_id": productID}))
			return
		}

		responses.WriteSuccess(w, productPriceResponseFrom(price))
	}
}

type batchPriceRequest struct {
	ProductIDs []string   `json:"product_ids" validate:"required,min=1,dive,required"`
	AsOf       *time.Time `json:"as_of,omitempty"`
}

// ProductPriceBatch resolves prices for many products at once. Individual
// failures surface per product without failing the batch.
func ProductPriceBatch(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload batchPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids := make([]uuid.UUID, 0, len(payload.ProductIDs))
		for _, raw := range payload.ProductIDs {
			id, parseErr := parseUUIDField(raw, "product_ids")
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, parseErr)
				return
			}
			ids = append(ids, id)
		}

		asOf := time.Now().UTC()
		if payload.AsOf != nil {
			asOf = *payload.AsOf
		}

		results := svc.GetProductPrices(r.Context(), ids, asOf)

		out := make([]batchPriceResponse, 0, len(ids))
		seen := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			entry := batchPriceResponse{ProductID: id}
			if result, ok := results[id]; ok {
				entry.Price = productPriceResponseFrom(result.Price)
				if result.Err != nil {
					entry.Error = result.Err.Error()
				}
			}
			out = append(out, entry)
		}

		responses.WriteSuccess(w, map[string]any{"prices": out, "as_of": asOf})
	}
}

type orderFlowLineRequest struct {
	ProductID           string           `json:"product_id" validate:"required"`
	Quantity            int              `json:"quantity" validate:"required,min=1"`
	Scenario            string           `json:"scenario" validate:"required"`
	FillPercent         *decimal.Decimal `json:"fill_percent,omitempty"`
	IncludeReturnCredit bool             `json:"include_return_credit,omitempty"`
	ReturnCondition     *string          `json:"return_condition,omitempty"`
	ReturnedAt          *time.Time       `json:"returned_at,omitempty"`
	ExpectedBy          *time.Time       `json:"expected_by,omitempty"`
	Currency            *string          `json:"currency,omitempty"`
}

type orderFlowRequest struct {
	Lines          []orderFlowLineRequest `json:"lines" validate:"required,min=1,dive"`
	TaxPctOverride *decimal.Decimal       `json:"tax_pct_override,omitempty"`
	AsOf           *time.Time             `json:"as_of,omitempty"`
}

// PricingOrderFlow prices a whole order: every line per its scenario, then
// the aggregate totals.
func PricingOrderFlow(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderFlowRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req := pricing.OrderFlowRequest{TaxPctOverride: payload.TaxPctOverride}
		for _, line := range payload.Lines {
			params, err := line.toParams(payload.AsOf)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			req.Lines = append(req.Lines, params)
		}

		result, err := svc.CalculateOrderFlow(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderFlowResponseFrom(result))
	}
}

func (l orderFlowLineRequest) toParams(asOf *time.Time) (pricing.OrderFlowParams, error) {
	productID, err := parseUUIDField(l.ProductID, "product_id")
	if err != nil {
		return pricing.OrderFlowParams{}, err
	}
	scenario, err := enums.ParseOrderScenario(strings.TrimSpace(l.Scenario))
	if err != nil {
		return pricing.OrderFlowParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order scenario")
	}
	currency, err := parseOptionalCurrency(l.Currency)
	if err != nil {
		return pricing.OrderFlowParams{}, err
	}

	params := pricing.OrderFlowParams{
		ProductID:           productID,
		Quantity:            l.Quantity,
		Scenario:            scenario,
		FillPercent:         l.FillPercent,
		IncludeReturnCredit: l.IncludeReturnCredit,
		ReturnedAt:          l.ReturnedAt,
		ExpectedBy:          l.ExpectedBy,
		Currency:            currency,
	}
	if asOf != nil {
		params.AsOf = *asOf
	}
	if l.ReturnCondition != nil {
		condition, parseErr := enums.ParseCylinderCondition(strings.TrimSpace(*l.ReturnCondition))
		if parseErr != nil {
			return pricing.OrderFlowParams{}, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cylinder condition")
		}
		params.ReturnCondition = &condition
	}
	return params, nil
}

type orderTotalsLineRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Quantity      int             `json:"quantity" validate:"required,min=1"`
	Scenario      string          `json:"scenario" validate:"required"`
	PricingMethod string          `json:"pricing_method,omitempty"`
	GasCharge     decimal.Decimal `json:"gas_charge"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	LineTotal     decimal.Decimal `json:"line_total"`
	Currency      *string         `json:"currency,omitempty"`
}

type orderTotalsRequest struct {
	Lines           []orderTotalsLineRequest `json:"lines" validate:"required,min=1,dive"`
	TaxPctOverride  *decimal.Decimal         `json:"tax_pct_override,omitempty"`
	IncludeDeposits bool                     `json:"include_deposits,omitempty"`
}

// PricingOrderTotals aggregates already-priced lines. With include_deposits
// set, lines whose scenario charges a deposit but carry none get the current
// deposit rate added before summing.
func PricingOrderTotals(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload orderTotalsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]pricing.OrderLine, 0, len(payload.Lines))
		for _, raw := range payload.Lines {
			productID, err := parseUUIDField(raw.ProductID, "product_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			scenario, err := enums.ParseOrderScenario(strings.TrimSpace(raw.Scenario))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order scenario"))
				return
			}
			currency, err := parseOptionalCurrency(raw.Currency)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			line := pricing.OrderLine{
				ProductID:     productID,
				Quantity:      raw.Quantity,
				Scenario:      scenario,
				GasCharge:     raw.GasCharge,
				DepositAmount: raw.DepositAmount,
				Subtotal:      raw.Subtotal,
				TaxAmount:     raw.TaxAmount,
				LineTotal:     raw.LineTotal,
				Currency:      currency,
			}
			if raw.PricingMethod != "" {
				method, parseErr := enums.ParsePricingMethod(strings.TrimSpace(raw.PricingMethod))
				if parseErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid pricing method"))
					return
				}
				line.PricingMethod = method
			}
			lines = append(lines, line)
		}

		var totals *pricing.OrderTotals
		var err error
		if payload.IncludeDeposits {
			totals, err = svc.CalculateOrderTotalsWithDeposits(r.Context(), lines, payload.TaxPctOverride)
		} else {
			totals, err = svc.CalculateOrderTotals(r.Context(), lines, payload.TaxPctOverride)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orderTotalsResponseFrom(*totals))
	}
}

type creditQuoteRequest struct {
	CapacityKg decimal.Decimal `json:"capacity_kg" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,min=1"`
	Condition  *string         `json:"condition,omitempty"`
	ReturnedAt *time.Time      `json:"returned_at,omitempty"`
	ExpectedBy *time.Time      `json:"expected_by,omitempty"`
	Currency   *string         `json:"currency,omitempty"`
}

// PricingReturnCredit quotes the refund for returned empty cylinders.
func PricingReturnCredit(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload creditQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := parseOptionalCurrency(payload.Currency)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricing.CreditParams{
			CapacityKg: payload.CapacityKg,
			Quantity:   payload.Quantity,
			ExpectedBy: payload.ExpectedBy,
			Currency:   currency,
		}
		if payload.ReturnedAt != nil {
			params.ReturnedAt = *payload.ReturnedAt
		}
		if payload.Condition != nil {
			condition, parseErr := enums.ParseCylinderCondition(strings.TrimSpace(*payload.Condition))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid cylinder condition"))
				return
			}
			params.Condition = condition
		}

		credit, err := svc.CalculateEmptyReturnCredit(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, creditResponseFrom(credit))
	}
}

type validatePriceRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	RequestedPrice decimal.Decimal `json:"requested_price"`
	AsOf           *time.Time      `json:"as_of,omitempty"`
}

// PricingValidate compares a client-supplied price against the resolved one.
func PricingValidate(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload validatePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parseUUIDField(payload.ProductID, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pricing.ValidatePriceParams{
			ProductID:      productID,
			RequestedPrice: payload.RequestedPrice,
		}
		if payload.AsOf != nil {
			params.AsOf = *payload.AsOf
		}

		validation, err := svc.ValidateProductPricing(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if validation == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no applicable price for product").
				WithDetails(map[string]any{"product_id": productID}))
			return
		}

		responses.WriteSuccess(w, priceValidationResponse{
			ProductID:      validation.ProductID,
			RequestedPrice: validation.RequestedPrice,
			ResolvedPrice:  validation.ResolvedPrice,
			Difference:     validation.Difference,
			Valid:          validation.Valid,
		})
	}
}

// PricingStats reports dataset counts for dashboards.
func PricingStats(svc *pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.GetPricingStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pricingStatsResponse{
			ActivePriceLists:    stats.ActivePriceLists,
			TotalPriceLists:     stats.TotalPriceLists,
			PricedProducts:      stats.PricedProducts,
			ActiveDepositRates:  stats.ActiveDepositRates,
			DefaultPriceListIDs: stats.DefaultPriceListIDs,
			AsOf:                stats.AsOf,
		})
	}
}

func parseUUIDField(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid uuid").
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}

func parseOptionalCurrency(raw *string) (enums.Currency, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return enums.DefaultCurrency, nil
	}
	currency, err := enums.ParseCurrency(strings.TrimSpace(*raw))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid currency")
	}
	return currency, nil
}
