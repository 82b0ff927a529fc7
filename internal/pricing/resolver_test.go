package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func TestResolverReturnsNilWhenNothingMatches(t *testing.T) {
	resolver := NewPriceListResolver(&stubRepo{})
	resolved, err := resolver.Resolve(context.Background(), ResolveParams{ProductID: uuid.New()})
	if err != nil {
		t.Fatal(err)
	}
	if resolved != nil {
		t.Fatal("expected nil for an unpriced product")
	}
}

func TestResolverTakesFirstEntryInRepositoryOrder(t *testing.T) {
	productID := uuid.New()
	def := flatEntry(productID, "3000")
	def.List.Name = "Default List"
	newer := flatEntry(productID, "2800")
	newer.List.IsDefault = false
	newer.List.Name = "Promo List"

	// The repository returns entries with resolution ordering applied:
	// default lists first, then latest start date.
	resolver := NewPriceListResolver(&stubRepo{
		entriesFn: func(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
			return []PriceListEntry{def, newer}, nil
		},
	})
	resolved, err := resolver.Resolve(context.Background(), ResolveParams{ProductID: productID})
	if err != nil {
		t.Fatal(err)
	}
	if resolved == nil || resolved.List.Name != "Default List" {
		t.Fatalf("expected the default list to win, got %+v", resolved)
	}
}

func TestResolverForwardsFilters(t *testing.T) {
	productID := uuid.New()
	explicitID := uuid.New()
	method := enums.PricingMethodPerKg
	var seen PriceListEntriesQuery
	resolver := NewPriceListResolver(&stubRepo{
		entriesFn: func(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
			seen = params
			return nil, nil
		},
	})
	asOf := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if _, err := resolver.Resolve(context.Background(), ResolveParams{
		ProductID:   productID,
		AsOf:        asOf,
		PriceListID: &explicitID,
		Method:      &method,
	}); err != nil {
		t.Fatal(err)
	}
	if seen.ProductID != productID || !seen.AsOf.Equal(asOf) {
		t.Fatalf("query not forwarded: %+v", seen)
	}
	if seen.PriceListID == nil || *seen.PriceListID != explicitID {
		t.Fatal("explicit price list id not forwarded")
	}
	if seen.Method == nil || *seen.Method != method {
		t.Fatal("method filter not forwarded")
	}
}

func TestResolverDefaultsAsOfToNow(t *testing.T) {
	var seen time.Time
	resolver := NewPriceListResolver(&stubRepo{
		entriesFn: func(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
			seen = params.AsOf
			return nil, nil
		},
	})
	before := time.Now().UTC()
	if _, err := resolver.Resolve(context.Background(), ResolveParams{ProductID: uuid.New()}); err != nil {
		t.Fatal(err)
	}
	if seen.Before(before) || seen.After(time.Now().UTC()) {
		t.Fatalf("expected as-of to default to now, got %s", seen)
	}
}
