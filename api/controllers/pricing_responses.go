package controllers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/internal/pricing"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	"github.com/jasiri-energy/gasline-backend/pkg/money"
)

type quoteResponse struct {
	Method enums.PricingMethod `json:"method"`
	Total  decimal.Decimal     `json:"total"`
	// Display is the formatted total in the list currency.
	Display   string `json:"display"`
	Breakdown any    `json:"breakdown"`
}

func newQuoteResponse(quote pricing.Quote, currency enums.Currency) quoteResponse {
	return quoteResponse{
		Method:    quote.Method(),
		Total:     quote.Total(),
		Display:   money.FormatDecimal(quote.Total(), currency),
		Breakdown: quoteBreakdown(quote),
	}
}

func quoteBreakdown(quote pricing.Quote) any {
	switch q := quote.(type) {
	case pricing.FlatUnitQuote:
		return map[string]any{
			"unit_price":       q.UnitPrice,
			"surcharge_pct":    q.SurchargePct,
			"final_unit_price": q.FinalUnitPrice,
			"quantity":         q.Quantity,
			"line_total":       q.LineTotal,
		}
	case pricing.FlatRateQuote:
		return map[string]any{
			"unit_price":       q.UnitPrice,
			"surcharge_pct":    q.SurchargePct,
			"final_unit_price": q.FinalUnitPrice,
			"quantity":         q.Quantity,
		}
	case pricing.TieredQuote:
		return map[string]any{
			"unit_price":            q.UnitPrice,
			"surcharge_pct":         q.SurchargePct,
			"final_unit_price":      q.FinalUnitPrice,
			"discount_pct":          q.DiscountPct,
			"discounted_unit_price": q.DiscountedUnitPrice,
			"quantity":              q.Quantity,
			"line_total":            q.LineTotal,
		}
	case pricing.MarkupQuote:
		return map[string]any{
			"source_price":     q.SourcePrice,
			"markup_pct":       q.MarkupPct,
			"unit_price":       q.UnitPrice,
			"surcharge_pct":    q.SurchargePct,
			"final_unit_price": q.FinalUnitPrice,
			"quantity":         q.Quantity,
			"line_total":       q.LineTotal,
		}
	case *pricing.WeightQuote:
		return weightQuoteResponseFrom(q)
	case pricing.WeightQuote:
		return weightQuoteResponseFrom(&q)
	}
	return nil
}

type weightQuoteResponse struct {
	ProductID        uuid.UUID           `json:"product_id"`
	Quantity         int                 `json:"quantity"`
	NetGasWeightKg   decimal.Decimal     `json:"net_gas_weight_kg"`
	AdjustedWeightKg decimal.Decimal     `json:"adjusted_weight_kg"`
	FillPercent      decimal.Decimal     `json:"fill_percent"`
	GasPricePerKg    decimal.Decimal     `json:"gas_price_per_kg"`
	GasCharge        decimal.Decimal     `json:"gas_charge"`
	DepositAmount    decimal.Decimal     `json:"deposit_amount"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	TaxRate          decimal.Decimal     `json:"tax_rate"`
	TaxAmount        decimal.Decimal     `json:"tax_amount"`
	TotalPrice       decimal.Decimal     `json:"total_price"`
	Display          string              `json:"display"`
	Currency         enums.Currency      `json:"currency"`
	PricingMethod    enums.PricingMethod `json:"pricing_method"`
	PriceListID      uuid.UUID           `json:"price_list_id"`
}

func weightQuoteResponseFrom(q *pricing.WeightQuote) weightQuoteResponse {
	return weightQuoteResponse{
		ProductID:        q.ProductID,
		Quantity:         q.Quantity,
		NetGasWeightKg:   q.NetGasWeightKg,
		AdjustedWeightKg: q.AdjustedWeightKg,
		FillPercent:      q.FillPercent,
		GasPricePerKg:    q.GasPricePerKg,
		GasCharge:        q.GasCharge,
		DepositAmount:    q.DepositAmount,
		Subtotal:         q.Subtotal,
		TaxRate:          q.TaxRate,
		TaxAmount:        q.TaxAmount,
		TotalPrice:       q.TotalPrice,
		Display:          money.FormatDecimal(q.TotalPrice, q.Currency),
		Currency:         q.Currency,
		PricingMethod:    q.PricingMethod,
		PriceListID:      q.PriceListID,
	}
}

type creditResponse struct {
	DepositPerUnit decimal.Decimal         `json:"deposit_per_unit"`
	Quantity       int                     `json:"quantity"`
	Condition      enums.CylinderCondition `json:"condition"`
	RefundPct      decimal.Decimal         `json:"refund_pct"`
	CreditAmount   decimal.Decimal         `json:"credit_amount"`
	IsLate         bool                    `json:"is_late"`
	DaysLate       int                     `json:"days_late"`
	WeeksLate      int                     `json:"weeks_late"`
	PenaltyPct     decimal.Decimal         `json:"penalty_pct"`
	LatePenalty    decimal.Decimal         `json:"late_penalty"`
	NetCredit      decimal.Decimal         `json:"net_credit"`
	Display        string                  `json:"display"`
	Currency       enums.Currency          `json:"currency"`
}

func creditResponseFrom(credit *pricing.EmptyReturnCredit) *creditResponse {
	if credit == nil {
		return nil
	}
	return &creditResponse{
		DepositPerUnit: credit.DepositPerUnit,
		Quantity:       credit.Quantity,
		Condition:      credit.Condition,
		RefundPct:      credit.RefundPct,
		CreditAmount:   credit.CreditAmount,
		IsLate:         credit.IsLate,
		DaysLate:       credit.DaysLate,
		WeeksLate:      credit.WeeksLate,
		PenaltyPct:     credit.PenaltyPct,
		LatePenalty:    credit.LatePenalty,
		NetCredit:      credit.NetCredit,
		Display:        money.FormatDecimal(credit.NetCredit, credit.Currency),
		Currency:       credit.Currency,
	}
}

type orderLineResponse struct {
	ProductID     uuid.UUID           `json:"product_id"`
	Quantity      int                 `json:"quantity"`
	Scenario      enums.OrderScenario `json:"scenario"`
	PricingMethod enums.PricingMethod `json:"pricing_method"`
	GasCharge     decimal.Decimal     `json:"gas_charge"`
	DepositAmount decimal.Decimal     `json:"deposit_amount"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	TaxAmount     decimal.Decimal     `json:"tax_amount"`
	LineTotal     decimal.Decimal     `json:"line_total"`
	Credit        *creditResponse     `json:"credit,omitempty"`
	Currency      enums.Currency      `json:"currency"`
}

func orderLineResponseFrom(line pricing.OrderLine) orderLineResponse {
	return orderLineResponse{
		ProductID:     line.ProductID,
		Quantity:      line.Quantity,
		Scenario:      line.Scenario,
		PricingMethod: line.PricingMethod,
		GasCharge:     line.GasCharge,
		DepositAmount: line.DepositAmount,
		Subtotal:      line.Subtotal,
		TaxAmount:     line.TaxAmount,
		LineTotal:     line.LineTotal,
		Credit:        creditResponseFrom(line.Credit),
		Currency:      line.Currency,
	}
}

type orderTotalsResponse struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	GasCharges    decimal.Decimal `json:"gas_charges"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	LineCount     int             `json:"line_count"`
}

func orderTotalsResponseFrom(totals pricing.OrderTotals) orderTotalsResponse {
	return orderTotalsResponse{
		Subtotal:      totals.Subtotal,
		GasCharges:    totals.GasCharges,
		DepositAmount: totals.DepositAmount,
		TaxAmount:     totals.TaxAmount,
		CreditAmount:  totals.CreditAmount,
		GrandTotal:    totals.GrandTotal,
		LineCount:     totals.LineCount,
	}
}

type orderFlowResponse struct {
	Lines  []orderLineResponse `json:"lines"`
	Totals orderTotalsResponse `json:"totals"`
}

func orderFlowResponseFrom(result *pricing.OrderFlowResult) orderFlowResponse {
	lines := make([]orderLineResponse, 0, len(result.Lines))
	for _, line := range result.Lines {
		lines = append(lines, orderLineResponseFrom(line))
	}
	return orderFlowResponse{Lines: lines, Totals: orderTotalsResponseFrom(result.Totals)}
}

type productPriceResponse struct {
	ProductID     uuid.UUID           `json:"product_id"`
	PriceListID   uuid.UUID           `json:"price_list_id"`
	PriceListName string              `json:"price_list_name"`
	PricingMethod enums.PricingMethod `json:"pricing_method"`
	UnitPrice     *decimal.Decimal    `json:"unit_price,omitempty"`
	PricePerKg    *decimal.Decimal    `json:"price_per_kg,omitempty"`
	SurchargePct  *decimal.Decimal    `json:"surcharge_pct,omitempty"`
	MinQty        *int                `json:"min_qty,omitempty"`
	Currency      enums.Currency      `json:"currency"`
	AsOf          time.Time           `json:"as_of"`
}

func productPriceResponseFrom(price *pricing.ProductPrice) *productPriceResponse {
	if price == nil {
		return nil
	}
	return &productPriceResponse{
		ProductID:     price.ProductID,
		PriceListID:   price.PriceListID,
		PriceListName: price.PriceListName,
		PricingMethod: price.PricingMethod,
		UnitPrice:     price.UnitPrice,
		PricePerKg:    price.PricePerKg,
		SurchargePct:  price.SurchargePct,
		MinQty:        price.MinQty,
		Currency:      price.Currency,
		AsOf:          price.AsOf,
	}
}

type batchPriceResponse struct {
	ProductID uuid.UUID             `json:"product_id"`
	Price     *productPriceResponse `json:"price,omitempty"`
	Error     string                `json:"error,omitempty"`
}

type priceValidationResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	RequestedPrice decimal.Decimal `json:"requested_price"`
	ResolvedPrice  decimal.Decimal `json:"resolved_price"`
	Difference     decimal.Decimal `json:"difference"`
	Valid          bool            `json:"valid"`
}

type pricingStatsResponse struct {
	ActivePriceLists    int64       `json:"active_price_lists"`
	TotalPriceLists     int64       `json:"total_price_lists"`
	PricedProducts      int64       `json:"priced_products"`
	ActiveDepositRates  int64       `json:"active_deposit_rates"`
	DefaultPriceListIDs []uuid.UUID `json:"default_price_list_ids"`
	AsOf                time.Time   `json:"as_of"`
}
