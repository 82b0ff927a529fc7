package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// PriceList is a named, date-bounded table of prices. A nil EndsAt keeps the
// list open ended.
type PriceList struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Currency      enums.Currency      `gorm:"column:currency;not null;default:'KES'"`
	StartsAt      time.Time           `gorm:"column:starts_at;not null"`
	EndsAt        *time.Time          `gorm:"column:ends_at"`
	IsDefault     bool                `gorm:"column:is_default;not null;default:false"`
	PricingMethod enums.PricingMethod `gorm:"column:pricing_method;not null;default:'flat_unit'"`
	Notes         *string             `gorm:"column:notes"`
	Items         []PriceListItem     `gorm:"foreignKey:PriceListID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// CoversDate reports whether the validity window contains the given date.
// Bounds are inclusive on both ends.
func (p PriceList) CoversDate(date time.Time) bool {
	if p.StartsAt.After(date) {
		return false
	}
	if p.EndsAt != nil && p.EndsAt.Before(date) {
		return false
	}
	return true
}
