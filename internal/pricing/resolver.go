package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// PriceListResolver finds the price list entry that applies to a product on
// a given date.
type PriceListResolver struct {
	repo Repository
}

// NewPriceListResolver returns a resolver backed by the given repository.
func NewPriceListResolver(repo Repository) *PriceListResolver {
	return &PriceListResolver{repo: repo}
}

// ResolveParams narrows price list resolution. PriceListID pins resolution
// to one explicit list; Method restricts candidates to lists using that
// pricing method.
type ResolveParams struct {
	ProductID   uuid.UUID
	AsOf        time.Time
	PriceListID *uuid.UUID
	Method      *enums.PricingMethod
}

// Resolve picks the winning price list entry for the product. Candidates are
// lists covering the date that carry an item for the product; ties break on
// is_default first, then most recent starts_at. A nil result with nil error
// means no list prices this product, which callers treat as "not priced
// here" rather than a failure.
func (r *PriceListResolver) Resolve(ctx context.Context, params ResolveParams) (*ResolvedPrice, error) {
	asOf := params.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	entries, err := r.repo.FindPriceListEntries(ctx, PriceListEntriesQuery{
		ProductID:   params.ProductID,
		AsOf:        asOf,
		PriceListID: params.PriceListID,
		Method:      params.Method,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	winner := entries[0]
	return &ResolvedPrice{List: winner.List, Item: winner.Item}, nil
}
