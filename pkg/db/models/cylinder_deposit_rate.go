package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// CylinderDepositRate prices the refundable deposit for a cylinder capacity.
// Multiple rows may exist per capacity; resolution takes the active row with
// the latest effective date whose window contains the query date.
type CylinderDepositRate struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CapacityKg    decimal.Decimal `gorm:"column:capacity_kg;type:numeric(8,2);not null;index"`
	Currency      enums.Currency  `gorm:"column:currency;not null;default:'KES'"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	EffectiveFrom time.Time       `gorm:"column:effective_from;not null"`
	EndsAt        *time.Time      `gorm:"column:ends_at"`
	IsActive      bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// CoversDate reports whether the effective window contains the given date.
func (r CylinderDepositRate) CoversDate(date time.Time) bool {
	if r.EffectiveFrom.After(date) {
		return false
	}
	if r.EndsAt != nil && r.EndsAt.Before(date) {
		return false
	}
	return true
}
