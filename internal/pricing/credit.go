package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

// conditionRefundPct maps the assessed cylinder condition to the share of
// the deposit refunded.
var conditionRefundPct = map[enums.CylinderCondition]decimal.Decimal{
	enums.CylinderConditionExcellent: decimal.NewFromInt(100),
	enums.CylinderConditionGood:      decimal.NewFromInt(90),
	enums.CylinderConditionFair:      decimal.NewFromInt(75),
	enums.CylinderConditionPoor:      decimal.NewFromInt(50),
	enums.CylinderConditionDamaged:   decimal.NewFromInt(25),
	enums.CylinderConditionScrap:     decimal.Zero,
}

// lateReturnPenaltyPctPerWeek and lateReturnPenaltyCapPct bound the late
// return penalty: 5 percent of the credit per started week, at most 25.
var (
	lateReturnPenaltyPctPerWeek = decimal.NewFromInt(5)
	lateReturnPenaltyCapPct     = decimal.NewFromInt(25)
)

// EmptyReturnCreditCalculator computes the refund owed when a customer
// brings back an empty cylinder.
type EmptyReturnCreditCalculator struct {
	deposits *DepositRateResolver
}

// NewEmptyReturnCreditCalculator wires the calculator to its deposit lookup.
func NewEmptyReturnCreditCalculator(deposits *DepositRateResolver) *EmptyReturnCreditCalculator {
	return &EmptyReturnCreditCalculator{deposits: deposits}
}

// CreditParams describes the returned cylinders. ExpectedBy left nil means
// the return has no deadline and no penalty applies.
type CreditParams struct {
	CapacityKg decimal.Decimal
	Quantity   int
	Condition  enums.CylinderCondition
	ReturnedAt time.Time
	ExpectedBy *time.Time
	Currency   enums.Currency
}

// Calculate resolves the deposit for the cylinder size and applies the
// condition refund schedule, then the late penalty. The penalty is a share
// of the condition-adjusted credit, not of the raw deposit.
func (c *EmptyReturnCreditCalculator) Calculate(ctx context.Context, params CreditParams) (*EmptyReturnCredit, error) {
	if params.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": params.Quantity})
	}
	condition := params.Condition
	if condition == "" {
		condition = enums.CylinderConditionGood
	}
	refundPct, ok := conditionRefundPct[condition]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown cylinder condition").
			WithDetails(map[string]any{"condition": params.Condition})
	}

	returnedAt := params.ReturnedAt
	if returnedAt.IsZero() {
		returnedAt = time.Now().UTC()
	}
	currency := params.Currency
	if currency == "" {
		currency = enums.DefaultCurrency
	}

	depositPerUnit, err := c.deposits.Resolve(ctx, DepositParams{
		CapacityKg: &params.CapacityKg,
		Currency:   currency,
		AsOf:       returnedAt,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve deposit rate")
	}

	quantity := decimal.NewFromInt(int64(params.Quantity))
	credit := depositPerUnit.Mul(quantity).Mul(refundPct).Div(oneHundred)

	result := &EmptyReturnCredit{
		DepositPerUnit: depositPerUnit,
		Quantity:       params.Quantity,
		Condition:      condition,
		RefundPct:      refundPct,
		CreditAmount:   credit,
		NetCredit:      credit,
		Currency:       currency,
	}

	if params.ExpectedBy != nil && returnedAt.After(*params.ExpectedBy) {
		daysLate := int(returnedAt.Sub(*params.ExpectedBy).Hours() / 24)
		if returnedAt.Sub(*params.ExpectedBy)%(24*time.Hour) > 0 {
			daysLate++
		}
		weeksLate := daysLate / 7
		if daysLate%7 > 0 {
			weeksLate++
		}
		penaltyPct := lateReturnPenaltyPctPerWeek.Mul(decimal.NewFromInt(int64(weeksLate)))
		if penaltyPct.GreaterThan(lateReturnPenaltyCapPct) {
			penaltyPct = lateReturnPenaltyCapPct
		}
		penalty := credit.Mul(penaltyPct).Div(oneHundred)
		result.IsLate = true
		result.DaysLate = daysLate
		result.WeeksLate = weeksLate
		result.PenaltyPct = penaltyPct
		result.LatePenalty = penalty
		result.NetCredit = credit.Sub(penalty)
	}

	return result, nil
}
