package pricing

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

// TotalsParams configures order totals aggregation. TaxPctOverride, when
// set, taxes lines that arrived untaxed; lines already carrying tax keep it.
type TotalsParams struct {
	Lines          []OrderLine
	TaxPctOverride *decimal.Decimal
}

// AggregateTotals sums priced lines into order level totals. It is pure
// summation: lines are priced elsewhere and arrive final, and tax is never
// recomputed for lines that already carry it. Attached return credits sum
// into CreditAmount for reporting but stay out of GrandTotal; pickup lines
// already net their credit into LineTotal. Mixed currencies are rejected
// since the sums would be meaningless.
func AggregateTotals(params TotalsParams) (*OrderTotals, error) {
	totals := &OrderTotals{
		Subtotal:      decimal.Zero,
		GasCharges:    decimal.Zero,
		DepositAmount: decimal.Zero,
		TaxAmount:     decimal.Zero,
		CreditAmount:  decimal.Zero,
		GrandTotal:    decimal.Zero,
	}
	if len(params.Lines) == 0 {
		return totals, nil
	}

	currency := params.Lines[0].Currency
	for i, line := range params.Lines {
		if line.Currency != currency {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order lines mix currencies").
				WithDetails(map[string]any{
					"line":     i,
					"currency": line.Currency,
					"expected": currency,
				})
		}

		tax := line.TaxAmount
		if tax.IsZero() && params.TaxPctOverride != nil {
			tax = line.Subtotal.Mul(*params.TaxPctOverride).Div(oneHundred)
		}

		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.GasCharges = totals.GasCharges.Add(line.GasCharge)
		totals.DepositAmount = totals.DepositAmount.Add(line.DepositAmount)
		totals.TaxAmount = totals.TaxAmount.Add(tax)
		if line.Credit != nil {
			totals.CreditAmount = totals.CreditAmount.Add(line.Credit.NetCredit)
		}
		totals.LineCount++
	}

	totals.GrandTotal = totals.Subtotal.Add(totals.TaxAmount)
	return totals, nil
}
