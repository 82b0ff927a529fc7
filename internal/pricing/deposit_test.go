package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func TestDepositResolveExactCapacities(t *testing.T) {
	repo := &stubRepo{
		depositRatesFn: func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
			return standardDepositRates(), nil
		},
	}
	resolver := NewDepositRateResolver(repo)

	cases := []struct {
		capacity string
		want     string
	}{
		{"6", "2500"},
		{"13", "3500"},
		{"25", "5500"},
		{"50", "8500"},
	}
	for _, tc := range cases {
		amount, err := resolver.Resolve(context.Background(), DepositParams{
			CapacityKg: decPtr(tc.capacity),
		})
		if err != nil {
			t.Fatal(err)
		}
		if !amount.Equal(dec(tc.want)) {
			t.Fatalf("capacity %skg: expected %s, got %s", tc.capacity, tc.want, amount)
		}
	}
}

func TestDepositResolveClosestCapacityFallback(t *testing.T) {
	repo := &stubRepo{
		depositRatesFn: func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
			return standardDepositRates(), nil
		},
	}
	resolver := NewDepositRateResolver(repo)

	// 14kg has no configured rate; 13kg is the closest.
	amount, err := resolver.Resolve(context.Background(), DepositParams{CapacityKg: decPtr("14")})
	if err != nil {
		t.Fatal(err)
	}
	if !amount.Equal(dec("3500")) {
		t.Fatalf("expected closest-capacity fallback to 3500, got %s", amount)
	}
}

func TestDepositResolveConvertsLiters(t *testing.T) {
	var seenCurrency enums.Currency
	repo := &stubRepo{
		depositRatesFn: func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
			seenCurrency = currency
			return standardDepositRates(), nil
		},
	}
	resolver := NewDepositRateResolver(repo)

	// 26.5L * 0.51 kg/L = 13.515kg, closest configured capacity is 13kg.
	amount, err := resolver.Resolve(context.Background(), DepositParams{CapacityL: decPtr("26.5")})
	if err != nil {
		t.Fatal(err)
	}
	if !amount.Equal(dec("3500")) {
		t.Fatalf("expected 3500 for 26.5L cylinder, got %s", amount)
	}
	if seenCurrency != enums.CurrencyKES {
		t.Fatalf("expected default currency, got %s", seenCurrency)
	}
}

func TestDepositResolveNoRatesMeansZero(t *testing.T) {
	resolver := NewDepositRateResolver(&stubRepo{})
	amount, err := resolver.Resolve(context.Background(), DepositParams{CapacityKg: decPtr("13")})
	if err != nil {
		t.Fatal(err)
	}
	if !amount.IsZero() {
		t.Fatalf("expected zero deposit, got %s", amount)
	}
}

func TestDepositResolveZeroCapacityMeansNoDeposit(t *testing.T) {
	resolver := NewDepositRateResolver(&stubRepo{
		depositRatesFn: func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
			t.Fatal("repository should not be queried without a capacity")
			return nil, nil
		},
	})
	amount, err := resolver.Resolve(context.Background(), DepositParams{})
	if err != nil {
		t.Fatal(err)
	}
	if !amount.IsZero() {
		t.Fatalf("expected zero deposit, got %s", amount)
	}
}
