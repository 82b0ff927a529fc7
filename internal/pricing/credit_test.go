package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func creditCalculator() *EmptyReturnCreditCalculator {
	repo := &stubRepo{
		depositRatesFn: func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
			return standardDepositRates(), nil
		},
	}
	return NewEmptyReturnCreditCalculator(NewDepositRateResolver(repo))
}

func TestCreditGoodCondition(t *testing.T) {
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
		Condition:  enums.CylinderConditionGood,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !credit.DepositPerUnit.Equal(dec("3500")) {
		t.Fatalf("expected deposit 3500, got %s", credit.DepositPerUnit)
	}
	if !credit.CreditAmount.Equal(dec("3150")) {
		t.Fatalf("expected credit 3150 at 90%%, got %s", credit.CreditAmount)
	}
	if credit.IsLate {
		t.Fatal("return without a deadline cannot be late")
	}
	if !credit.NetCredit.Equal(credit.CreditAmount) {
		t.Fatalf("expected no penalty, net %s vs credit %s", credit.NetCredit, credit.CreditAmount)
	}
}

func TestCreditScrapRefundsNothing(t *testing.T) {
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
		Condition:  enums.CylinderConditionScrap,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !credit.CreditAmount.IsZero() {
		t.Fatalf("expected zero credit for scrap, got %s", credit.CreditAmount)
	}
}

func TestCreditConditionDefaultsToGood(t *testing.T) {
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if credit.Condition != enums.CylinderConditionGood {
		t.Fatalf("expected default condition good, got %s", credit.Condition)
	}
	if !credit.RefundPct.Equal(dec("90")) {
		t.Fatalf("expected 90%% refund, got %s", credit.RefundPct)
	}
}

func TestCreditScalesWithQuantity(t *testing.T) {
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("6"),
		Quantity:   4,
		Condition:  enums.CylinderConditionExcellent,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !credit.CreditAmount.Equal(dec("10000")) {
		t.Fatalf("expected 4 x 2500, got %s", credit.CreditAmount)
	}
}

func TestCreditOneWeekLatePenalty(t *testing.T) {
	expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	returned := expected.AddDate(0, 0, 7)
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
		Condition:  enums.CylinderConditionExcellent,
		ReturnedAt: returned,
		ExpectedBy: &expected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !credit.IsLate {
		t.Fatal("expected late return")
	}
	if credit.WeeksLate != 1 {
		t.Fatalf("expected one week late, got %d", credit.WeeksLate)
	}
	if !credit.PenaltyPct.Equal(dec("5")) {
		t.Fatalf("expected 5%% penalty, got %s", credit.PenaltyPct)
	}
	// 3500 credit at 100%, minus 5% = 3325.
	if !credit.LatePenalty.Equal(dec("175")) {
		t.Fatalf("expected penalty 175, got %s", credit.LatePenalty)
	}
	if !credit.NetCredit.Equal(dec("3325")) {
		t.Fatalf("expected net credit 3325, got %s", credit.NetCredit)
	}
}

func TestCreditPenaltyCapsAtTwentyFivePercent(t *testing.T) {
	expected := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	returned := expected.AddDate(0, 6, 0)
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
		Condition:  enums.CylinderConditionExcellent,
		ReturnedAt: returned,
		ExpectedBy: &expected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !credit.PenaltyPct.Equal(dec("25")) {
		t.Fatalf("expected capped 25%% penalty, got %s", credit.PenaltyPct)
	}
	if !credit.NetCredit.Equal(dec("2625")) {
		t.Fatalf("expected net credit 2625, got %s", credit.NetCredit)
	}
}

func TestCreditOnTimeReturnHasNoPenalty(t *testing.T) {
	expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	returned := expected.AddDate(0, 0, -1)
	credit, err := creditCalculator().Calculate(context.Background(), CreditParams{
		CapacityKg: dec("13"),
		Quantity:   1,
		Condition:  enums.CylinderConditionGood,
		ReturnedAt: returned,
		ExpectedBy: &expected,
	})
	if err != nil {
		t.Fatal(err)
	}
	if credit.IsLate || !credit.LatePenalty.IsZero() {
		t.Fatalf("expected no penalty, got late=%v penalty=%s", credit.IsLate, credit.LatePenalty)
	}
}
