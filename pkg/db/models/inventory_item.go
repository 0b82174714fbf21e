package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when an item is created without one.
const DefaultLowStockThreshold = 10

// InventoryItem is the canonical stock record for a single owner.
type InventoryItem struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string          `gorm:"column:name;not null"`
	Description       *string         `gorm:"column:description"`
	Quantity          int             `gorm:"column:quantity;not null;default:0"`
	Price             decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	CategoryID        *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Category          *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	OwnerID           uuid.UUID       `gorm:"column:owner_id;type:uuid;not null;index"`
	SKU               *string         `gorm:"column:sku;uniqueIndex"`
	Location          *string         `gorm:"column:location"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:10"`
	Logs              []InventoryLog  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Suppliers         []ItemSupplier  `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether the item has hit its alerting threshold.
func (i InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}
