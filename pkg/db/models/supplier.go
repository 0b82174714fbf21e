package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is owned by exactly one principal and visible only to its owner.
type Supplier struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	ContactName *string        `gorm:"column:contact_name"`
	Email       *string        `gorm:"column:email"`
	Phone       *string        `gorm:"column:phone"`
	Address     *string        `gorm:"column:address"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index"`
	Items       []ItemSupplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
