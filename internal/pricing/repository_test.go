package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	priceLists := `
CREATE TABLE IF NOT EXISTS price_lists (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  currency TEXT NOT NULL DEFAULT 'KES',
  starts_at DATETIME NOT NULL,
  ends_at DATETIME,
  is_default INTEGER NOT NULL DEFAULT 0,
  pricing_method TEXT NOT NULL DEFAULT 'flat_unit',
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	priceListItems := `
CREATE TABLE IF NOT EXISTS price_list_items (
  id TEXT PRIMARY KEY,
  price_list_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  unit_price NUMERIC,
  price_per_kg NUMERIC,
  surcharge_pct NUMERIC,
  min_qty INTEGER,
  price_excluding_tax NUMERIC,
  tax_amount NUMERIC,
  price_including_tax NUMERIC,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (price_list_id, product_id)
);`
	depositRates := `
CREATE TABLE IF NOT EXISTS cylinder_deposit_rates (
  id TEXT PRIMARY KEY,
  capacity_kg NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'KES',
  amount NUMERIC NOT NULL,
  effective_from DATETIME NOT NULL,
  ends_at DATETIME,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(priceLists).Error)
	require.NoError(t, db.Exec(priceListItems).Error)
	require.NoError(t, db.Exec(depositRates).Error)
	return db
}

func seedPriceList(t *testing.T, db *gorm.DB, name string, startsAt time.Time, isDefault bool) *models.PriceList {
	t.Helper()

	list := &models.PriceList{
		ID:            uuid.New(),
		Name:          name,
		Currency:      enums.CurrencyKES,
		StartsAt:      startsAt,
		IsDefault:     isDefault,
		PricingMethod: enums.PricingMethodFlatUnit,
	}
	require.NoError(t, db.Create(list).Error)
	return list
}

func seedListItem(t *testing.T, db *gorm.DB, listID, productID uuid.UUID, unitPrice string) {
	t.Helper()

	require.NoError(t, db.Create(&models.PriceListItem{
		ID:          uuid.New(),
		PriceListID: listID,
		ProductID:   productID,
		UnitPrice:   decPtr(unitPrice),
	}).Error)
}

func seedDepositRow(t *testing.T, db *gorm.DB, capacityKg, amount string, effectiveFrom time.Time) *models.CylinderDepositRate {
	t.Helper()

	rate := &models.CylinderDepositRate{
		ID:            uuid.New(),
		CapacityKg:    dec(capacityKg),
		Currency:      enums.CurrencyKES,
		Amount:        dec(amount),
		EffectiveFrom: effectiveFrom,
		IsActive:      true,
	}
	require.NoError(t, db.Create(rate).Error)
	return rate
}

// A default list wins over a non-default list even when the latter
// started more recently.
func TestRepositoryEntriesRankDefaultFirst(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	productID := uuid.New()

	standard := seedPriceList(t, db, "Standard", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true)
	promo := seedPriceList(t, db, "June Promo", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false)
	seedListItem(t, db, standard.ID, productID, "2950")
	seedListItem(t, db, promo.ID, productID, "2700")

	entries, err := repo.FindPriceListEntries(context.Background(), PriceListEntriesQuery{
		ProductID: productID,
		AsOf:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, standard.ID, entries[0].List.ID)
	assert.True(t, entries[0].List.IsDefault)
	assert.Equal(t, promo.ID, entries[1].List.ID)
}

// Among non-default lists the most recently started one ranks first.
func TestRepositoryEntriesRankNewerStartFirst(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	productID := uuid.New()

	older := seedPriceList(t, db, "Q1 Retail", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), false)
	newer := seedPriceList(t, db, "Q2 Retail", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), false)
	seedListItem(t, db, older.ID, productID, "2950")
	seedListItem(t, db, newer.ID, productID, "3050")

	entries, err := repo.FindPriceListEntries(context.Background(), PriceListEntriesQuery{
		ProductID: productID,
		AsOf:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].List.ID)
	assert.Equal(t, older.ID, entries[1].List.ID)
}

// Rates come back capacity ascending, and within a capacity the latest
// effective row leads so resolvers can take the first match per size.
func TestRepositoryDepositRatesOrdering(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)

	seedDepositRow(t, db, "13", "3000", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	revised := seedDepositRow(t, db, "13", "3500", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	seedDepositRow(t, db, "6", "2500", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	rates, err := repo.FindDepositRates(context.Background(), enums.CurrencyKES, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.True(t, rates[0].CapacityKg.Equal(dec("6")))
	assert.Equal(t, revised.ID, rates[1].ID)
	assert.True(t, rates[1].Amount.Equal(dec("3500")))
	assert.True(t, rates[2].Amount.Equal(dec("3000")))
}
