package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
	"github.com/jasiri-energy/gasline-backend/pkg/logger"
)

type stubRepo struct {
	entriesFn      func(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error)
	depositRatesFn func(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error)
	productFn      func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	parentFn       func(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	countListsFn   func(ctx context.Context, asOf time.Time, activeOnly bool) (int64, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindPriceListEntries(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
	if s.entriesFn != nil {
		return s.entriesFn(ctx, params)
	}
	return nil, nil
}

func (s *stubRepo) FindPriceListByID(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	return nil, nil
}

func (s *stubRepo) FindDepositRates(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
	if s.depositRatesFn != nil {
		return s.depositRatesFn(ctx, currency, asOf)
	}
	return nil, nil
}

func (s *stubRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.productFn != nil {
		return s.productFn(ctx, id)
	}
	return nil, nil
}

func (s *stubRepo) FindParentProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if s.parentFn != nil {
		return s.parentFn(ctx, productID)
	}
	product, err := s.FindProduct(ctx, productID)
	if err != nil || product == nil || product.ParentProductID == nil {
		return nil, err
	}
	return s.FindProduct(ctx, *product.ParentProductID)
}

func (s *stubRepo) CountPriceLists(ctx context.Context, asOf time.Time, activeOnly bool) (int64, error) {
	if s.countListsFn != nil {
		return s.countListsFn(ctx, asOf, activeOnly)
	}
	return 0, nil
}

func (s *stubRepo) CountPricedProducts(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) CountActiveDepositRates(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) ListDefaultPriceListIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	return nil, nil
}

func newTestService(repo Repository) *Service {
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		panic(err)
	}
	return svc
}

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(value string) *decimal.Decimal {
	d := dec(value)
	return &d
}

func intPtr(v int) *int { return &v }

// depositRate builds an active rate effective since 2025.
func depositRate(capacityKg, amount string) models.CylinderDepositRate {
	return models.CylinderDepositRate{
		ID:            uuid.New(),
		CapacityKg:    dec(capacityKg),
		Currency:      enums.CurrencyKES,
		Amount:        dec(amount),
		EffectiveFrom: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
	}
}

// standardDepositRates mirrors the production deposit schedule.
func standardDepositRates() []models.CylinderDepositRate {
	return []models.CylinderDepositRate{
		depositRate("6", "2500"),
		depositRate("13", "3500"),
		depositRate("25", "5500"),
		depositRate("50", "8500"),
	}
}

// gasProduct is a 13kg full-exchange cylinder with weight data.
func gasProduct(id uuid.UUID) *models.Product {
	taxRate := dec("16")
	return &models.Product{
		ID:             id,
		SKU:            "CYL-13KG-FX",
		Name:           "13kg Cylinder Exchange",
		Variant:        enums.CylinderVariantFullExchange,
		CapacityKg:     decPtr("13"),
		NetGasWeightKg: decPtr("13"),
		TaxRate:        &taxRate,
	}
}

// perKgEntry is a price list entry pricing gas at the given per-kg rate.
func perKgEntry(productID uuid.UUID, pricePerKg string) PriceListEntry {
	listID := uuid.New()
	return PriceListEntry{
		List: models.PriceList{
			ID:            listID,
			Name:          "Standard Gas",
			Currency:      enums.CurrencyKES,
			StartsAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			IsDefault:     true,
			PricingMethod: enums.PricingMethodPerKg,
		},
		Item: models.PriceListItem{
			ID:          uuid.New(),
			PriceListID: listID,
			ProductID:   productID,
			PricePerKg:  decPtr(pricePerKg),
		},
	}
}

// flatEntry is a price list entry with a unit price.
func flatEntry(productID uuid.UUID, unitPrice string) PriceListEntry {
	listID := uuid.New()
	return PriceListEntry{
		List: models.PriceList{
			ID:            listID,
			Name:          "Standard Retail",
			Currency:      enums.CurrencyKES,
			StartsAt:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			IsDefault:     true,
			PricingMethod: enums.PricingMethodFlatUnit,
		},
		Item: models.PriceListItem{
			ID:          uuid.New(),
			PriceListID: listID,
			ProductID:   productID,
			UnitPrice:   decPtr(unitPrice),
		},
	}
}
