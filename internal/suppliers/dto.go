package suppliers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// SupplierDTO represents the supplier payload returned to clients.
type SupplierDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName *string   `json:"contact_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Address     *string   `json:"address,omitempty"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LinkDTO represents an item-supplier sourcing link.
type LinkDTO struct {
	ID            uuid.UUID       `json:"id"`
	ItemID        uuid.UUID       `json:"item_id"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	SupplierSKU   *string         `json:"supplier_sku,omitempty"`
	SupplierPrice decimal.Decimal `json:"supplier_price"`
	LeadTimeDays  *int            `json:"lead_time_days,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewSupplierDTO builds a DTO from the persisted model.
func NewSupplierDTO(supplier *models.Supplier) *SupplierDTO {
	if supplier == nil {
		return nil
	}
	return &SupplierDTO{
		ID:          supplier.ID,
		Name:        supplier.Name,
		ContactName: supplier.ContactName,
		Email:       supplier.Email,
		Phone:       supplier.Phone,
		Address:     supplier.Address,
		OwnerID:     supplier.OwnerID,
		CreatedAt:   supplier.CreatedAt,
		UpdatedAt:   supplier.UpdatedAt,
	}
}

// NewLinkDTO builds a DTO from the persisted link.
func NewLinkDTO(link *models.ItemSupplier) *LinkDTO {
	if link == nil {
		return nil
	}
	return &LinkDTO{
		ID:            link.ID,
		ItemID:        link.ItemID,
		SupplierID:    link.SupplierID,
		SupplierSKU:   link.SupplierSKU,
		SupplierPrice: link.SupplierPrice,
		LeadTimeDays:  link.LeadTimeDays,
		Notes:         link.Notes,
		CreatedAt:     link.CreatedAt,
		UpdatedAt:     link.UpdatedAt,
	}
}
