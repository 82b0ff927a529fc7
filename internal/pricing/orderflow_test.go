package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
)

func newOrderFlowPricer(repo Repository) *OrderFlowPricer {
	resolver := NewPriceListResolver(repo)
	deposits := NewDepositRateResolver(repo)
	weights := NewWeightBasedPricer(repo, resolver, deposits)
	credits := NewEmptyReturnCreditCalculator(deposits)
	return NewOrderFlowPricer(repo, weights, deposits, credits, resolver)
}

func TestOrderFlowOutrightChargesDeposit(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	line, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID: productID,
		Quantity:  1,
		Scenario:  enums.OrderScenarioOutright,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !line.DepositAmount.Equal(dec("3500")) {
		t.Fatalf("expected deposit 3500, got %s", line.DepositAmount)
	}
	if !line.LineTotal.Equal(dec("6322")) {
		t.Fatalf("expected line total 6322, got %s", line.LineTotal)
	}
}

func TestOrderFlowRefillSkipsDeposit(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	line, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID: productID,
		Quantity:  1,
		Scenario:  enums.OrderScenarioRefill,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !line.DepositAmount.IsZero() {
		t.Fatalf("refill must not charge a deposit, got %s", line.DepositAmount)
	}
	// Gas only: 1950 + 16% tax = 2262.
	if !line.LineTotal.Equal(dec("2262")) {
		t.Fatalf("expected line total 2262, got %s", line.LineTotal)
	}
}

func TestOrderFlowExchangeAttachesCreditWithoutNetting(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	condition := enums.CylinderConditionGood
	line, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID:           productID,
		Quantity:            1,
		Scenario:            enums.OrderScenarioExchange,
		IncludeReturnCredit: true,
		ReturnCondition:     &condition,
	})
	if err != nil {
		t.Fatal(err)
	}
	if line.Credit == nil {
		t.Fatal("expected an attached return credit")
	}
	if !line.Credit.NetCredit.Equal(dec("3150")) {
		t.Fatalf("expected credit 3150, got %s", line.Credit.NetCredit)
	}
	// The credit is reported separately, not subtracted from the charge.
	if !line.LineTotal.Equal(dec("2262")) {
		t.Fatalf("expected line total 2262, got %s", line.LineTotal)
	}
}

func TestOrderFlowExchangeCreditRequiresCondition(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	_, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID:           productID,
		Quantity:            1,
		Scenario:            enums.OrderScenarioExchange,
		IncludeReturnCredit: true,
	})
	if err == nil {
		t.Fatal("expected error when opting into a credit without a condition")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOrderFlowPickupIsNegativeCredit(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	condition := enums.CylinderConditionExcellent
	line, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID:       productID,
		Quantity:        1,
		Scenario:        enums.OrderScenarioPickup,
		ReturnCondition: &condition,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !line.GasCharge.IsZero() || !line.DepositAmount.IsZero() {
		t.Fatal("pickup must not charge gas or deposit")
	}
	if !line.LineTotal.Equal(dec("-3500")) {
		t.Fatalf("expected line total -3500, got %s", line.LineTotal)
	}
}

func TestOrderFlowFallsBackToFlatUnit(t *testing.T) {
	productID := uuid.New()
	repo := weightTestRepo(productID, "150")
	// Strip the weight data so weight based pricing is not applicable, and
	// serve a flat unit entry instead of the per-kg list.
	repo.productFn = func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
		product := gasProduct(productID)
		product.NetGasWeightKg = nil
		return product, nil
	}
	repo.entriesFn = func(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
		if params.Method != nil {
			return nil, nil
		}
		return []PriceListEntry{flatEntry(productID, "2800")}, nil
	}

	line, err := newOrderFlowPricer(repo).Price(context.Background(), OrderFlowParams{
		ProductID: productID,
		Quantity:  2,
		Scenario:  enums.OrderScenarioOutright,
	})
	if err != nil {
		t.Fatal(err)
	}
	if line.PricingMethod != enums.PricingMethodFlatUnit {
		t.Fatalf("expected flat unit fallback, got %s", line.PricingMethod)
	}
	// 2 x 2800 = 5600 gas, 2 x 3500 deposit = 7000, subtotal 12600,
	// 16% tax = 2016, total 14616.
	if !line.Subtotal.Equal(dec("12600")) {
		t.Fatalf("expected subtotal 12600, got %s", line.Subtotal)
	}
	if !line.LineTotal.Equal(dec("14616")) {
		t.Fatalf("expected line total 14616, got %s", line.LineTotal)
	}
}

func TestOrderFlowUnknownProduct(t *testing.T) {
	pricer := newOrderFlowPricer(&stubRepo{})
	_, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID: uuid.New(),
		Quantity:  1,
		Scenario:  enums.OrderScenarioOutright,
	})
	if err == nil {
		t.Fatal("expected error for a product with no price anywhere")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderFlowRejectsBadScenario(t *testing.T) {
	pricer := newOrderFlowPricer(&stubRepo{})
	_, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID: uuid.New(),
		Quantity:  1,
		Scenario:  enums.OrderScenario("subscription"),
	})
	if err == nil {
		t.Fatal("expected error for unknown scenario")
	}
}

func TestOrderFlowLateExchangeCredit(t *testing.T) {
	productID := uuid.New()
	pricer := newOrderFlowPricer(weightTestRepo(productID, "150"))

	condition := enums.CylinderConditionExcellent
	expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	returned := expected.AddDate(0, 0, 3)
	line, err := pricer.Price(context.Background(), OrderFlowParams{
		ProductID:           productID,
		Quantity:            1,
		Scenario:            enums.OrderScenarioExchange,
		IncludeReturnCredit: true,
		ReturnCondition:     &condition,
		ReturnedAt:          &returned,
		ExpectedBy:          &expected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if line.Credit == nil || !line.Credit.IsLate {
		t.Fatal("expected a late credit")
	}
	// 3500 at 100%, minus one started week at 5% = 3325.
	if !line.Credit.NetCredit.Equal(dec("3325")) {
		t.Fatalf("expected net credit 3325, got %s", line.Credit.NetCredit)
	}
}
