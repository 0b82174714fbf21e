package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemSupplier links an item to a supplier. At most one link may exist per
// (item, supplier) pair.
type ItemSupplier struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID        uuid.UUID       `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_item_supplier_pair"`
	SupplierID    uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null;uniqueIndex:idx_item_supplier_pair"`
	SupplierSKU   *string         `gorm:"column:supplier_sku"`
	SupplierPrice decimal.Decimal `gorm:"column:supplier_price;type:numeric(10,2);not null"`
	LeadTimeDays  *int            `gorm:"column:lead_time_days"`
	Notes         *string         `gorm:"column:notes"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
