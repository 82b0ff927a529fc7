package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// PriceListEntry pairs a price list with the item it carries for one product.
type PriceListEntry struct {
	List models.PriceList
	Item models.PriceListItem
}

// ResolvedPrice is the outcome of price list resolution for one product/date.
type ResolvedPrice struct {
	List models.PriceList
	Item models.PriceListItem
}

// Currency returns the currency the resolved list prices in.
func (r *ResolvedPrice) Currency() enums.Currency {
	return r.List.Currency
}

// Quote is the closed set of per-method pricing results. Each pricing method
// materializes its own variant so required fields stay compiler-enforced
// instead of collapsing into one loosely typed struct.
type Quote interface {
	Method() enums.PricingMethod
	Total() decimal.Decimal
}

// FlatUnitQuote prices quantity units at a surcharge-adjusted unit price.
type FlatUnitQuote struct {
	UnitPrice      decimal.Decimal
	SurchargePct   decimal.Decimal
	FinalUnitPrice decimal.Decimal
	Quantity       int
	LineTotal      decimal.Decimal
}

func (q FlatUnitQuote) Method() enums.PricingMethod { return enums.PricingMethodFlatUnit }
func (q FlatUnitQuote) Total() decimal.Decimal      { return q.LineTotal }

// FlatRateQuote charges one fixed amount regardless of quantity.
type FlatRateQuote struct {
	UnitPrice      decimal.Decimal
	SurchargePct   decimal.Decimal
	FinalUnitPrice decimal.Decimal
	Quantity       int
}

func (q FlatRateQuote) Method() enums.PricingMethod { return enums.PricingMethodFlatRate }
func (q FlatRateQuote) Total() decimal.Decimal      { return q.FinalUnitPrice }

// TieredQuote applies the quantity discount schedule before multiplying.
type TieredQuote struct {
	UnitPrice           decimal.Decimal
	SurchargePct        decimal.Decimal
	FinalUnitPrice      decimal.Decimal
	DiscountPct         decimal.Decimal
	DiscountedUnitPrice decimal.Decimal
	Quantity            int
	LineTotal           decimal.Decimal
}

func (q TieredQuote) Method() enums.PricingMethod { return enums.PricingMethodTiered }
func (q TieredQuote) Total() decimal.Decimal      { return q.LineTotal }

// MarkupQuote derives its unit price from a source list price plus markup and
// then follows the flat unit formula.
type MarkupQuote struct {
	SourcePrice    decimal.Decimal
	MarkupPct      decimal.Decimal
	UnitPrice      decimal.Decimal
	SurchargePct   decimal.Decimal
	FinalUnitPrice decimal.Decimal
	Quantity       int
	LineTotal      decimal.Decimal
	SourceMethod   enums.PricingMethod
}

func (q MarkupQuote) Method() enums.PricingMethod { return q.SourceMethod }
func (q MarkupQuote) Total() decimal.Decimal      { return q.LineTotal }

// WeightQuote is the full per-kilogram gas fill breakdown. Every monetary
// field is already scaled by Quantity; per-unit numbers can be recovered by
// dividing back out.
type WeightQuote struct {
	ProductID        uuid.UUID
	Quantity         int
	NetGasWeightKg   decimal.Decimal
	AdjustedWeightKg decimal.Decimal
	FillPercent      decimal.Decimal
	GasPricePerKg    decimal.Decimal
	GasCharge        decimal.Decimal
	DepositAmount    decimal.Decimal
	Subtotal         decimal.Decimal
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	TotalPrice       decimal.Decimal
	Currency         enums.Currency
	PricingMethod    enums.PricingMethod
	PriceListID      uuid.UUID
}

func (q WeightQuote) Method() enums.PricingMethod { return q.PricingMethod }
func (q WeightQuote) Total() decimal.Decimal      { return q.TotalPrice }

// EmptyReturnCredit is the refund owed for a returned empty cylinder.
type EmptyReturnCredit struct {
	DepositPerUnit decimal.Decimal
	Quantity       int
	Condition      enums.CylinderCondition
	RefundPct      decimal.Decimal
	CreditAmount   decimal.Decimal
	IsLate         bool
	DaysLate       int
	WeeksLate      int
	PenaltyPct     decimal.Decimal
	LatePenalty    decimal.Decimal
	NetCredit      decimal.Decimal
	Currency       enums.Currency
}

// OrderLine is the priced output for one product under one scenario. It is
// derived state; orders themselves persist elsewhere.
type OrderLine struct {
	ProductID     uuid.UUID
	Quantity      int
	Scenario      enums.OrderScenario
	PricingMethod enums.PricingMethod
	GasCharge     decimal.Decimal
	DepositAmount decimal.Decimal
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
	Credit        *EmptyReturnCredit
	Currency      enums.Currency
}

// OrderTotals aggregates priced lines into order-level sums.
type OrderTotals struct {
	Subtotal      decimal.Decimal
	GasCharges    decimal.Decimal
	DepositAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	CreditAmount  decimal.Decimal
	GrandTotal    decimal.Decimal
	LineCount     int
}

// ProductPrice is the simple resolved price surface for catalog callers.
type ProductPrice struct {
	ProductID     uuid.UUID
	PriceListID   uuid.UUID
	PriceListName string
	PricingMethod enums.PricingMethod
	UnitPrice     *decimal.Decimal
	PricePerKg    *decimal.Decimal
	SurchargePct  *decimal.Decimal
	MinQty        *int
	Currency      enums.Currency
	AsOf          time.Time
}

// BatchPriceResult pairs one product of a batch request with its outcome.
// Failed lookups carry Err and never abort the rest of the batch.
type BatchPriceResult struct {
	ProductID uuid.UUID
	Price     *ProductPrice
	Err       error
}

// PriceValidation reports how a requested price compares to the resolved one.
type PriceValidation struct {
	ProductID      uuid.UUID
	RequestedPrice decimal.Decimal
	ResolvedPrice  decimal.Decimal
	Difference     decimal.Decimal
	Valid          bool
}

// Stats summarizes the pricing dataset for operational dashboards.
type Stats struct {
	ActivePriceLists    int64
	TotalPriceLists     int64
	PricedProducts      int64
	ActiveDepositRates  int64
	DefaultPriceListIDs []uuid.UUID
	AsOf                time.Time
}
