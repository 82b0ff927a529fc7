package deposits

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jasiri-energy/gasline-backend/pkg/db/models"
	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// Repository handles deposit rate persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rate *models.CylinderDepositRate) error
	Update(ctx context.Context, rate *models.CylinderDepositRate) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.CylinderDepositRate, error)
	List(ctx context.Context, params ListQuery) ([]models.CylinderDepositRate, error)
}

// ListQuery configures deposit rate queries.
type ListQuery struct {
	Currency   *enums.Currency
	ActiveOnly bool
	CoversDate *time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a deposit rate repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rate *models.CylinderDepositRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *repository) Update(ctx context.Context, rate *models.CylinderDepositRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CylinderDepositRate, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	var rate models.CylinderDepositRate
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rate).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.CylinderDepositRate, error) {
	query := r.db.WithContext(ctx).Model(&models.CylinderDepositRate{})
	if params.Currency != nil {
		query = query.Where("currency = ?", *params.Currency)
	}
	if params.ActiveOnly {
		query = query.Where("is_active = true")
	}
	if params.CoversDate != nil {
		query = query.
			Where("effective_from <= ?", *params.CoversDate).
			Where("(ends_at IS NULL OR ends_at >= ?)", *params.CoversDate)
	}

	var rates []models.CylinderDepositRate
	if err := query.Order("capacity_kg ASC, effective_from DESC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}
