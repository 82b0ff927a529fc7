package pricelists

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

func setupPriceListTestDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, db.Exec(priceLists).Error)
	require.NoError(t, db.Exec(priceListItems).Error)
	return db
}

func newList(t *testing.T, db *gorm.DB, name string, created time.Time, isDefault bool) *models.PriceList {
	t.Helper()

	list := &models.PriceList{
		ID:            uuid.New(),
		Name:          name,
		Currency:      enums.CurrencyKES,
		StartsAt:      created,
		IsDefault:     isDefault,
		PricingMethod: enums.PricingMethodFlatUnit,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(list).Error)
	return list
}

func newItem(listID, productID uuid.UUID, unitPrice string) *models.PriceListItem {
	price := decimal.RequireFromString(unitPrice)
	return &models.PriceListItem{
		ID:          uuid.New(),
		PriceListID: listID,
		ProductID:   productID,
		UnitPrice:   &price,
	}
}

func TestRepositoryFindByIDPreloadsItems(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := newList(t, db, "Retail", time.Now().UTC(), false)
	require.NoError(t, repo.UpsertItem(ctx, newItem(list.ID, uuid.New(), "2950")))
	require.NoError(t, repo.UpsertItem(ctx, newItem(list.ID, uuid.New(), "4100")))

	found, err := repo.FindByID(ctx, list.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Retail", found.Name)
	assert.Len(t, found.Items, 2)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRepositoryUpsertItemReplacesExisting(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := newList(t, db, "Retail", time.Now().UTC(), false)
	productID := uuid.New()

	first := newItem(list.ID, productID, "2950")
	require.NoError(t, repo.UpsertItem(ctx, first))

	second := newItem(list.ID, productID, "3100")
	require.NoError(t, repo.UpsertItem(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.PriceListItem{}).
		Where("price_list_id = ? AND product_id = ?", list.ID, productID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	found, err := repo.FindByID(ctx, list.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].UnitPrice)
	assert.True(t, found.Items[0].UnitPrice.Equal(decimal.RequireFromString("3100")))
}

func TestRepositoryDeleteItem(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	list := newList(t, db, "Retail", time.Now().UTC(), false)
	productID := uuid.New()
	require.NoError(t, repo.UpsertItem(ctx, newItem(list.ID, productID, "2950")))
	require.NoError(t, repo.DeleteItem(ctx, list.ID, productID))

	found, err := repo.FindByID(ctx, list.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	newList(t, db, "Oldest", base, false)
	newList(t, db, "Middle", base.Add(time.Hour), false)
	newList(t, db, "Newest", base.Add(2*time.Hour), false)

	page, next, err := repo.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "Newest", page[0].Name)
	assert.Equal(t, "Middle", page[1].Name)

	rest, last, err := repo.List(ctx, ListQuery{Limit: 2, Cursor: next})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, last)
	assert.Equal(t, "Oldest", rest[0].Name)
}

func TestRepositoryListCoversDate(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expired := newList(t, db, "Expired", base.Add(-48*time.Hour), false)
	cutoff := base.Add(-24 * time.Hour)
	require.NoError(t, db.Model(expired).Update("ends_at", cutoff).Error)
	newList(t, db, "Current", base.Add(-48*time.Hour), false)

	page, _, err := repo.List(ctx, ListQuery{Limit: 10, CoversDate: &base})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Current", page[0].Name)
}

func TestRepositoryClearDefault(t *testing.T) {
	db := setupPriceListTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := newList(t, db, "Old Default", time.Now().UTC(), true)
	kept := newList(t, db, "New Default", time.Now().UTC(), true)

	require.NoError(t, repo.ClearDefault(ctx, kept.ID))

	var cleared models.PriceList
	require.NoError(t, db.First(&cleared, "id = ?", old.ID).Error)
	assert.False(t, cleared.IsDefault)

	var survivor models.PriceList
	require.NoError(t, db.First(&survivor, "id = ?", kept.ID).Error)
	assert.True(t, survivor.IsDefault)
}
