package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
)

// ItemDTO represents the inventory item payload returned to clients.
type ItemDTO struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	CategoryName      *string         `json:"category_name,omitempty"`
	OwnerID           uuid.UUID       `json:"owner_id"`
	SKU               *string         `json:"sku,omitempty"`
	Location          *string         `json:"location,omitempty"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsLowStock        bool            `json:"is_low_stock"`
	StockBand         enums.StockBand `json:"stock_band"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LogDTO represents a single audit log entry.
type LogDTO struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	UserID           *uuid.UUID      `json:"user_id,omitempty"`
	Action           enums.LogAction `json:"action"`
	QuantityChange   int             `json:"quantity_change"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	Timestamp        time.Time       `json:"timestamp"`
	Notes            *string         `json:"notes,omitempty"`
}

// AdjustResult bundles the mutated item with the log entry it produced.
type AdjustResult struct {
	Item *ItemDTO `json:"item"`
	Log  *LogDTO  `json:"log"`
}

// StockLevelRow is one line of the stock level report.
type StockLevelRow struct {
	ItemID       uuid.UUID       `json:"item_id"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	StockBand    enums.StockBand `json:"stock_band"`
	CategoryName *string         `json:"category_name,omitempty"`
}

// NewItemDTO builds a DTO from the persisted model.
func NewItemDTO(item *models.InventoryItem) *ItemDTO {
	if item == nil {
		return nil
	}
	dto := &ItemDTO{
		ID:                item.ID,
		Name:              item.Name,
		Description:       item.Description,
		Quantity:          item.Quantity,
		Price:             item.Price,
		CategoryID:        item.CategoryID,
		OwnerID:           item.OwnerID,
		SKU:               item.SKU,
		Location:          item.Location,
		LowStockThreshold: item.LowStockThreshold,
		IsLowStock:        item.IsLowStock(),
		StockBand:         ClassifyStock(item.Quantity),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
	if item.Category != nil {
		name := item.Category.Name
		dto.CategoryName = &name
	}
	return dto
}

// NewLogDTO builds a DTO from the persisted log entry.
func NewLogDTO(log *models.InventoryLog) *LogDTO {
	if log == nil {
		return nil
	}
	return &LogDTO{
		ID:               log.ID,
		ItemID:           log.ItemID,
		UserID:           log.UserID,
		Action:           log.Action,
		QuantityChange:   log.QuantityChange,
		PreviousQuantity: log.PreviousQuantity,
		NewQuantity:      log.NewQuantity,
		Timestamp:        log.Timestamp,
		Notes:            log.Notes,
	}
}
