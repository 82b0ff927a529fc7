package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// Repository handles pricing persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPriceListEntries(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error)
	FindPriceListByID(ctx context.Context, id uuid.UUID) (*models.PriceList, error)
	FindDepositRates(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindParentProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	CountPriceLists(ctx context.Context, asOf time.Time, activeOnly bool) (int64, error)
	CountPricedProducts(ctx context.Context, asOf time.Time) (int64, error)
	CountActiveDepositRates(ctx context.Context, asOf time.Time) (int64, error)
	ListDefaultPriceListIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error)
}

// PriceListEntriesQuery configures price list entry queries. Entries come
// back with resolution ordering already applied: default lists first, then
// most recent start date.
type PriceListEntriesQuery struct {
	ProductID   uuid.UUID
	AsOf        time.Time
	PriceListID *uuid.UUID
	Method      *enums.PricingMethod
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindPriceListEntries(ctx context.Context, params PriceListEntriesQuery) ([]PriceListEntry, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PriceListItem{}).
		Joins("JOIN price_lists ON price_lists.id = price_list_items.price_list_id").
		Where("price_list_items.product_id = ?", params.ProductID).
		Where("price_lists.starts_at <= ?", params.AsOf).
		Where("(price_lists.ends_at IS NULL OR price_lists.ends_at >= ?)", params.AsOf)
	if params.PriceListID != nil {
		query = query.Where("price_lists.id = ?", *params.PriceListID)
	}
	if params.Method != nil {
		query = query.Where("price_lists.pricing_method = ?", *params.Method)
	}

	var items []models.PriceListItem
	if err := query.
		Select("price_list_items.*").
		Order("price_lists.is_default DESC, price_lists.starts_at DESC, price_lists.id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	listIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		listIDs = append(listIDs, item.PriceListID)
	}
	var lists []models.PriceList
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", listIDs).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	listsByID := make(map[uuid.UUID]models.PriceList, len(lists))
	for _, list := range lists {
		listsByID[list.ID] = list
	}

	entries := make([]PriceListEntry, 0, len(items))
	for _, item := range items {
		list, ok := listsByID[item.PriceListID]
		if !ok {
			continue
		}
		entries = append(entries, PriceListEntry{List: list, Item: item})
	}
	return entries, nil
}

func (r *repository) FindPriceListByID(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var list models.PriceList
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&list).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *repository) FindDepositRates(ctx context.Context, currency enums.Currency, asOf time.Time) ([]models.CylinderDepositRate, error) {
	var rates []models.CylinderDepositRate
	if err := r.db.WithContext(ctx).
		Where("currency = ?", currency).
		Where("is_active = true").
		Where("effective_from <= ?", asOf).
		Where("(ends_at IS NULL OR ends_at >= ?)", asOf).
		Order("capacity_kg ASC, effective_from DESC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindParentProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := r.FindProduct(ctx, productID)
	if err != nil || product == nil {
		return nil, err
	}
	if product.ParentProductID == nil {
		return nil, nil
	}
	return r.FindProduct(ctx, *product.ParentProductID)
}

func (r *repository) CountPriceLists(ctx context.Context, asOf time.Time, activeOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PriceList{})
	if activeOnly {
		query = query.
			Where("starts_at <= ?", asOf).
			Where("(ends_at IS NULL OR ends_at >= ?)", asOf)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountPricedProducts(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PriceListItem{}).
		Joins("JOIN price_lists ON price_lists.id = price_list_items.price_list_id").
		Where("price_lists.starts_at <= ?", asOf).
		Where("(price_lists.ends_at IS NULL OR price_lists.ends_at >= ?)", asOf).
		Distinct("price_list_items.product_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CountActiveDepositRates(ctx context.Context, asOf time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CylinderDepositRate{}).
		Where("is_active = true").
		Where("effective_from <= ?", asOf).
		Where("(ends_at IS NULL OR ends_at >= ?)", asOf).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListDefaultPriceListIDs(ctx context.Context, asOf time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("is_default = true").
		Where("starts_at <= ?", asOf).
		Where("(ends_at IS NULL OR ends_at >= ?)", asOf).
		Order("starts_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
