package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceListItem carries the price a single product takes inside one list. The
// (price_list_id, product_id) pair is unique. UnitPrice and PricePerKg are
// mutually exclusive depending on the list's pricing method.
type PriceListItem struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	PriceListID  uuid.UUID        `gorm:"column:price_list_id;type:uuid;not null;uniqueIndex:idx_price_list_product"`
	ProductID    uuid.UUID        `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_price_list_product"`
	UnitPrice    *decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
	PricePerKg   *decimal.Decimal `gorm:"column:price_per_kg;type:numeric(12,2)"`
	SurchargePct *decimal.Decimal `gorm:"column:surcharge_pct;type:numeric(5,2)"`
	MinQty       *int             `gorm:"column:min_qty"`

	// Optional precomputed tax breakdown, carried verbatim when present.
	PriceExclTax *decimal.Decimal `gorm:"column:price_excluding_tax;type:numeric(12,2)"`
	TaxAmount    *decimal.Decimal `gorm:"column:tax_amount;type:numeric(12,2)"`
	PriceInclTax *decimal.Decimal `gorm:"column:price_including_tax;type:numeric(12,2)"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BasePrice returns whichever rate the item carries, preferring the unit price.
func (i PriceListItem) BasePrice() (decimal.Decimal, bool) {
	if i.UnitPrice != nil {
		return *i.UnitPrice, true
	}
	if i.PricePerKg != nil {
		return *i.PricePerKg, true
	}
	return decimal.Zero, false
}
