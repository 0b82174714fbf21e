package inventory

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

func mustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("sr_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Repo",
		LastName:     "Tester",
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestItem(t *testing.T, tx *gorm.DB, ownerID uuid.UUID, quantity int) *models.InventoryItem {
	t.Helper()
	sku := fmt.Sprintf("SKU-%s", uuid.NewString())
	item := &models.InventoryItem{
		ID:                uuid.New(),
		Name:              "Test Item",
		Quantity:          quantity,
		Price:             decimal.NewFromInt(10),
		OwnerID:           ownerID,
		SKU:               &sku,
		LowStockThreshold: models.DefaultLowStockThreshold,
	}
	if err := tx.Create(item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return item
}
