package pricing

import (
	"testing"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

func TestApplySurchargeAbsentIsIdentity(t *testing.T) {
	price := dec("1250.50")
	if got := ApplySurcharge(price, nil); !got.Equal(price) {
		t.Fatalf("expected %s, got %s", price, got)
	}
	zero := dec("0")
	if got := ApplySurcharge(price, &zero); !got.Equal(price) {
		t.Fatalf("expected %s with zero surcharge, got %s", price, got)
	}
}

func TestApplySurchargeFormula(t *testing.T) {
	cases := []struct {
		price     string
		surcharge string
		want      string
	}{
		{"100", "10", "110"},
		{"100", "-10", "90"},
		{"1500", "16", "1740"},
		{"200", "2.5", "205"},
	}
	for _, tc := range cases {
		got := ApplySurcharge(dec(tc.price), decPtr(tc.surcharge))
		if !got.Equal(dec(tc.want)) {
			t.Fatalf("surcharge %s on %s: expected %s, got %s", tc.surcharge, tc.price, tc.want, got)
		}
	}
}

func TestTierDiscountBoundaries(t *testing.T) {
	cases := []struct {
		quantity int
		want     string
	}{
		{1, "0"}, {9, "0"},
		{10, "2"}, {19, "2"},
		{20, "5"}, {49, "5"},
		{50, "10"}, {99, "10"},
		{100, "15"}, {500, "15"},
	}
	for _, tc := range cases {
		if got := TierDiscountPercent(tc.quantity); !got.Equal(dec(tc.want)) {
			t.Fatalf("quantity %d: expected %s%%, got %s%%", tc.quantity, tc.want, got)
		}
	}
}

func TestCalculateFlatUnit(t *testing.T) {
	quote, err := Calculate(CalcParams{
		Method:       enums.PricingMethodFlatUnit,
		UnitPrice:    dec("2950"),
		SurchargePct: decPtr("10"),
		Quantity:     3,
	})
	if err != nil {
		t.Fatal(err)
	}
	flat, ok := quote.(FlatUnitQuote)
	if !ok {
		t.Fatalf("expected FlatUnitQuote, got %T", quote)
	}
	if !flat.FinalUnitPrice.Equal(dec("3245")) {
		t.Fatalf("expected final unit price 3245, got %s", flat.FinalUnitPrice)
	}
	if !flat.LineTotal.Equal(dec("9735")) {
		t.Fatalf("expected line total 9735, got %s", flat.LineTotal)
	}
}

func TestCalculateFlatRateIgnoresQuantity(t *testing.T) {
	for _, quantity := range []int{1, 7, 100} {
		quote, err := Calculate(CalcParams{
			Method:    enums.PricingMethodFlatRate,
			UnitPrice: dec("500"),
			Quantity:  quantity,
		})
		if err != nil {
			t.Fatal(err)
		}
		if !quote.Total().Equal(dec("500")) {
			t.Fatalf("quantity %d: expected total 500, got %s", quantity, quote.Total())
		}
	}
}

func TestCalculateTieredAppliesDiscountAfterSurcharge(t *testing.T) {
	quote, err := Calculate(CalcParams{
		Method:       enums.PricingMethodTiered,
		UnitPrice:    dec("100"),
		SurchargePct: decPtr("10"),
		Quantity:     50,
	})
	if err != nil {
		t.Fatal(err)
	}
	tieredQuote, ok := quote.(TieredQuote)
	if !ok {
		t.Fatalf("expected TieredQuote, got %T", quote)
	}
	// 100 * 1.10 = 110, minus 10% tier discount = 99, times 50 = 4950.
	if !tieredQuote.DiscountedUnitPrice.Equal(dec("99")) {
		t.Fatalf("expected discounted unit price 99, got %s", tieredQuote.DiscountedUnitPrice)
	}
	if !tieredQuote.LineTotal.Equal(dec("4950")) {
		t.Fatalf("expected line total 4950, got %s", tieredQuote.LineTotal)
	}
}

func TestCalculateMarkup(t *testing.T) {
	quote, err := Calculate(CalcParams{
		Method:      enums.PricingMethodMarkup,
		Quantity:    2,
		MarkupPct:   decPtr("20"),
		SourcePrice: decPtr("1000"),
	})
	if err != nil {
		t.Fatal(err)
	}
	markupQuote, ok := quote.(MarkupQuote)
	if !ok {
		t.Fatalf("expected MarkupQuote, got %T", quote)
	}
	if !markupQuote.UnitPrice.Equal(dec("1200")) {
		t.Fatalf("expected unit price 1200, got %s", markupQuote.UnitPrice)
	}
	if !markupQuote.LineTotal.Equal(dec("2400")) {
		t.Fatalf("expected line total 2400, got %s", markupQuote.LineTotal)
	}
}

func TestCalculateCopyFromListTakesSourceVerbatim(t *testing.T) {
	quote, err := Calculate(CalcParams{
		Method:      enums.PricingMethodCopyFromList,
		Quantity:    1,
		SourcePrice: decPtr("750"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !quote.Total().Equal(dec("750")) {
		t.Fatalf("expected 750, got %s", quote.Total())
	}
}

func TestCalculateMinimumQuantity(t *testing.T) {
	_, err := Calculate(CalcParams{
		Method:    enums.PricingMethodFlatUnit,
		UnitPrice: dec("100"),
		Quantity:  5,
		MinQty:    intPtr(10),
	})
	if err == nil {
		t.Fatal("expected minimum quantity error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeMinQuantity {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeMinQuantity, err)
	}
	details, ok := coded.Details().(map[string]any)
	if !ok || details["min_quantity"] != 10 {
		t.Fatalf("expected required minimum in details, got %v", coded.Details())
	}
}

func TestCalculateRejectsNonPositiveQuantity(t *testing.T) {
	for _, quantity := range []int{0, -3} {
		_, err := Calculate(CalcParams{
			Method:    enums.PricingMethodFlatUnit,
			UnitPrice: dec("100"),
			Quantity:  quantity,
		})
		if err == nil {
			t.Fatalf("expected error for quantity %d", quantity)
		}
		if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
}

func TestCalculateRejectsNegativePrice(t *testing.T) {
	_, err := Calculate(CalcParams{
		Method:    enums.PricingMethodFlatUnit,
		UnitPrice: dec("-5"),
		Quantity:  1,
	})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
