package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/jasiri-energy/gasline-backend/pkg/enums"
)

// Product is the canonical catalog listing with the attributes pricing
// consumes. Variants may point at a parent product and inherit price and tax
// fields they do not carry themselves.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU             string                `gorm:"column:sku;not null;uniqueIndex"`
	Name            string                `gorm:"column:name;not null"`
	Description     *string               `gorm:"column:description"`
	Variant         enums.CylinderVariant `gorm:"column:variant;not null;default:'full_outright'"`
	ParentProductID *uuid.UUID            `gorm:"column:parent_product_id;type:uuid"`

	CapacityKg     *decimal.Decimal `gorm:"column:capacity_kg;type:numeric(8,2)"`
	CapacityL      *decimal.Decimal `gorm:"column:capacity_l;type:numeric(8,2)"`
	NetGasWeightKg *decimal.Decimal `gorm:"column:net_gas_weight_kg;type:numeric(8,2)"`
	GrossWeightKg  *decimal.Decimal `gorm:"column:gross_weight_kg;type:numeric(8,2)"`
	TareWeightKg   *decimal.Decimal `gorm:"column:tare_weight_kg;type:numeric(8,2)"`

	UnitPrice   *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	TaxRate     *decimal.Decimal `gorm:"column:tax_rate;type:numeric(5,2)"`
	TaxCategory *string          `gorm:"column:tax_category"`

	Tags      pq.StringArray `gorm:"column:tags;type:text[];default:ARRAY[]::text[]"`
	IsActive  bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// HasWeightData reports whether the product carries everything weight-based
// pricing needs.
func (p Product) HasWeightData() bool {
	return p.NetGasWeightKg != nil && p.NetGasWeightKg.IsPositive() &&
		p.CapacityKg != nil && p.CapacityKg.IsPositive()
}
