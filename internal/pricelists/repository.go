package pricelists

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/pagination"
)

// Repository handles price list persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, list *models.PriceList) error
	Update(ctx context.Context, list *models.PriceList) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.PriceList, error)
	List(ctx context.Context, params ListQuery) ([]models.PriceList, *pagination.Cursor, error)
	ClearDefault(ctx context.Context, exceptID uuid.UUID) error
	UpsertItem(ctx context.Context, item *models.PriceListItem) error
	DeleteItem(ctx context.Context, listID, productID uuid.UUID) error
}

// ListQuery configures price list queries. CoversDate filters to lists whose
// validity window contains the date.
type ListQuery struct {
	CoversDate *time.Time
	Limit      int
	Cursor     *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a price list repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, list *models.PriceList) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *repository) Update(ctx context.Context, list *models.PriceList) error {
	return r.db.WithContext(ctx).Save(list).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.PriceList, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var list models.PriceList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&list).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &list, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.PriceList, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.PriceList{})
	if params.CoversDate != nil {
		query = query.
			Where("starts_at <= ?", *params.CoversDate).
			Where("(ends_at IS NULL OR ends_at >= ?)", *params.CoversDate)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var lists []models.PriceList
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&lists).Error; err != nil {
		return nil, nil, err
	}

	if len(lists) > limit {
		next := lists[limit]
		lists = lists[:limit]
		return lists, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return lists, nil, nil
}

func (r *repository) ClearDefault(ctx context.Context, exceptID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceList{}).
		Where("is_default AND id <> ?", exceptID).
		Update("is_default", false).Error
}

func (r *repository) UpsertItem(ctx context.Context, item *models.PriceListItem) error {
	var existing models.PriceListItem
	err := r.db.WithContext(ctx).
		Where("price_list_id = ? AND product_id = ?", item.PriceListID, item.ProductID).
		First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(item).Error
	}
	if err != nil {
		return err
	}
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, listID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("price_list_id = ? AND product_id = ?", listID, productID).
		Delete(&models.PriceListItem{}).Error
}
