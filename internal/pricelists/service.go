package pricelists

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	pkgerrors "github.com/jasiri-energy/gasline-backend/pkg/errors"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
	"github.com/jasiri-energy/gasline-backend/pkg/pagination"
)

// ServiceParams groups dependencies for the price list service.
type ServiceParams struct {
	Repo   Repository
	Logger *logger.Logger
}

// Service orchestrates price list administration. The pricing core reads
// the same tables through its own repository; this service is the write
// side.
type Service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds a price list service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{repo: params.Repo, logg: params.Logger}, nil
}

// ValidateDateRange reports whether a validity window is well formed: an
// absent end keeps the list open ended and is always valid, otherwise the
// start must not come after the end.
func ValidateDateRange(start time.Time, end *time.Time) bool {
	if end == nil {
		return true
	}
	return !start.After(*end)
}

// StatusOf classifies a list's validity window against a reference date.
func StatusOf(list models.PriceList, now time.Time) enums.PriceListStatus {
	if list.StartsAt.After(now) {
		return enums.PriceListStatusFuture
	}
	if list.EndsAt != nil && list.EndsAt.Before(now) {
		return enums.PriceListStatusExpired
	}
	return enums.PriceListStatusActive
}

// Create validates and stores a new price list. Flagging it default clears
// the flag from every other list.
func (s *Service) Create(ctx context.Context, list *models.PriceList) (*models.PriceList, error) {
	if strings.TrimSpace(list.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !list.PricingMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown pricing method").
			WithDetails(map[string]any{"pricing_method": list.PricingMethod})
	}
	if list.StartsAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date is required")
	}
	if !ValidateDateRange(list.StartsAt, list.EndsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date must not be after end date").
			WithDetails(map[string]any{
				"starts_at": list.StartsAt,
				"ends_at":   list.EndsAt,
			})
	}
	if list.Currency == "" {
		list.Currency = enums.DefaultCurrency
	}

	if err := s.repo.Create(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price list")
	}
	if list.IsDefault {
		if err := s.repo.ClearDefault(ctx, list.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear previous default")
		}
	}
	s.logg.Info(s.logg.WithPriceListID(ctx, list.ID.String()), "price list created")
	return list, nil
}

// Get loads a price list with its items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price list")
	}
	if list == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price list not found").
			WithDetails(map[string]any{"price_list_id": id})
	}
	return list, nil
}

// ListParams configures a price list listing.
type ListParams struct {
	Status     *enums.PriceListStatus
	Pagination pagination.Params
}

// ListedPriceList pairs a list with its derived status.
type ListedPriceList struct {
	models.PriceList
	Status enums.PriceListStatus
}

// List pages through price lists, newest first, annotating each with its
// current status. A status filter narrows in memory after the window query
// since status is derived, not stored.
func (s *Service) List(ctx context.Context, params ListParams) ([]ListedPriceList, string, error) {
	cursor, err := pagination.ParseCursor(params.Pagination.Cursor)
	if err != nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	lists, next, err := s.repo.List(ctx, ListQuery{
		Limit:  params.Pagination.Limit,
		Cursor: cursor,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price lists")
	}

	now := time.Now().UTC()
	annotated := make([]ListedPriceList, 0, len(lists))
	for _, list := range lists {
		status := StatusOf(list, now)
		if params.Status != nil && status != *params.Status {
			continue
		}
		annotated = append(annotated, ListedPriceList{PriceList: list, Status: status})
	}
	nextCursor := ""
	if next != nil {
		nextCursor = pagination.EncodeCursor(*next)
	}
	return annotated, nextCursor, nil
}

// SetItem creates or replaces a product's entry in a price list. The entry
// must carry a price matching the list's method: per-kg lists need a per-kg
// rate, everything else a unit price.
func (s *Service) SetItem(ctx context.Context, item *models.PriceListItem) (*models.PriceListItem, error) {
	list, err := s.Get(ctx, item.PriceListID)
	if err != nil {
		return nil, err
	}
	if item.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	perKgList := list.PricingMethod == enums.PricingMethodPerKg ||
		list.PricingMethod == enums.PricingMethodPerKgPartial
	if perKgList && item.PricePerKg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "per-kg lists require a per-kg rate")
	}
	if !perKgList && item.UnitPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a unit price is required")
	}
	if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	if item.PricePerKg != nil && item.PricePerKg.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "per-kg rate must not be negative")
	}
	if item.MinQty != nil && *item.MinQty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum quantity must be positive")
	}

	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert price list item")
	}
	return item, nil
}

// RemoveItem deletes a product's entry from a list.
func (s *Service) RemoveItem(ctx context.Context, listID, productID uuid.UUID) error {
	if _, err := s.Get(ctx, listID); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, listID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price list item")
	}
	return nil
}
