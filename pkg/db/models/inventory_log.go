package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// InventoryLog records an immutable quantity change for an item. Rows are
// append-only: nothing in the service updates or deletes them, and they only
// disappear when their item is deleted (FK cascade). The user reference is
// nullified if the acting user is later removed so the history survives.
type InventoryLog struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID           uuid.UUID       `gorm:"column:item_id;type:uuid;not null;index"`
	UserID           *uuid.UUID      `gorm:"column:user_id;type:uuid"`
	Action           enums.LogAction `gorm:"column:action;type:log_action;not null"`
	QuantityChange   int             `gorm:"column:quantity_change;not null"`
	PreviousQuantity int             `gorm:"column:previous_quantity;not null"`
	NewQuantity      int             `gorm:"column:new_quantity;not null"`
	Timestamp        time.Time       `gorm:"column:timestamp;autoCreateTime"`
	Notes            *string         `gorm:"column:notes"`
}
