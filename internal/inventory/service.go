package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

// Service exposes inventory item management operations.
type Service interface {
	CreateItem(ctx context.Context, principal pkgAuth.Principal, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, principal pkgAuth.Principal, params pagination.Params, filters ItemListFilters) (*ItemListResult, error)
	UpdateItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	AdjustQuantity(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, input AdjustInput) (*AdjustResult, error)
	DeleteItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) error
	StockLevelReport(ctx context.Context, principal pkgAuth.Principal) ([]StockLevelRow, error)
	ItemStockLevel(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) (*StockLevelRow, error)
	LowStockItems(ctx context.Context, principal pkgAuth.Principal) ([]ItemDTO, error)
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Name              string
	Description       *string
	Quantity          int
	Price             decimal.Decimal
	CategoryID        *uuid.UUID
	SKU               *string
	Location          *string
	LowStockThreshold *int
	Notes             *string
}

// UpdateItemInput holds optional mutation values for an item.
type UpdateItemInput struct {
	Name              *string
	Description       *string
	Quantity          *int
	Price             *decimal.Decimal
	CategoryID        *uuid.UUID
	ClearCategory     bool
	SKU               *string
	Location          *string
	LowStockThreshold *int
}

// AdjustInput carries a signed quantity delta and optional note.
type AdjustInput struct {
	Delta int
	Notes *string
}

type itemStore interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	CreateLog(ctx context.Context, log *models.InventoryLog) (*models.InventoryLog, error)
	ListItems(ctx context.Context, query itemListQuery) (*ItemListResult, error)
	StockLevels(ctx context.Context, ownerID *uuid.UUID) ([]StockLevelRow, error)
	ListLowStock(ctx context.Context, ownerID *uuid.UUID) ([]models.InventoryItem, error)
}

type txStoreRunner interface {
	RunInTx(ctx context.Context, fn func(store itemStore) error) error
}

type categoryLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type service struct {
	store      itemStore
	tx         txStoreRunner
	categories categoryLoader
}

// gormTxRunner binds the repository to transactions from the db client.
type gormTxRunner struct {
	db   *db.Client
	repo *Repository
}

func (r gormTxRunner) RunInTx(ctx context.Context, fn func(store itemStore) error) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(r.repo.WithTx(tx))
	})
}

// NewService constructs an inventory service instance.
func NewService(repo *Repository, dbClient *db.Client, categories categoryLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{
		store:      repo,
		tx:         gormTxRunner{db: dbClient, repo: repo},
		categories: categories,
	}, nil
}

func newServiceWithDeps(store itemStore, tx txStoreRunner, categories categoryLoader) *service {
	return &service{store: store, tx: tx, categories: categories}
}

// CreateItem creates the item and its initial audit log entry in one transaction.
func (s *service) CreateItem(ctx context.Context, principal pkgAuth.Principal, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	threshold := models.DefaultLowStockThreshold
	if input.LowStockThreshold != nil {
		threshold = *input.LowStockThreshold
	}
	if threshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold must be non-negative")
	}

	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	var createdID uuid.UUID
	if err := s.tx.RunInTx(ctx, func(store itemStore) error {
		item := &models.InventoryItem{
			Name:              name,
			Description:       input.Description,
			Quantity:          input.Quantity,
			Price:             input.Price,
			CategoryID:        input.CategoryID,
			OwnerID:           principal.UserID,
			SKU:               normalizeSKU(input.SKU),
			Location:          input.Location,
			LowStockThreshold: threshold,
		}
		created, err := store.CreateItem(ctx, item)
		if err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
		}
		createdID = created.ID

		userID := principal.UserID
		if _, err := store.CreateLog(ctx, &models.InventoryLog{
			ItemID:           created.ID,
			UserID:           &userID,
			Action:           enums.LogActionAdd,
			QuantityChange:   created.Quantity,
			PreviousQuantity: 0,
			NewQuantity:      created.Quantity,
			Notes:            input.Notes,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert log")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	item, err := s.store.FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return NewItemDTO(item), nil
}

// GetItem returns the item when the caller is allowed to see it.
func (s *service) GetItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.visibleItem(ctx, principal, itemID)
	if err != nil {
		return nil, err
	}
	return NewItemDTO(item), nil
}

func (s *service) ListItems(ctx context.Context, principal pkgAuth.Principal, params pagination.Params, filters ItemListFilters) (*ItemListResult, error) {
	result, err := s.store.ListItems(ctx, itemListQuery{
		Pagination: params,
		Filters:    filters,
		OwnerID:    ownerScope(principal),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}
	return result, nil
}

// UpdateItem applies field updates and synthesizes an audit log entry when
// the quantity changed.
func (s *service) UpdateItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.LowStockThreshold != nil && *input.LowStockThreshold < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold must be non-negative")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	item, err := s.visibleItem(ctx, principal, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.RunInTx(ctx, func(store itemStore) error {
		locked, err := store.FindByIDForUpdate(ctx, item.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock item")
		}

		previous := locked.Quantity
		applyUpdateToItem(locked, input)

		if _, err := store.UpdateItem(ctx, locked); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}

		// no log when the quantity did not change
		if locked.Quantity == previous {
			return nil
		}

		action := enums.LogActionAdd
		change := locked.Quantity - previous
		if change < 0 {
			action = enums.LogActionRemove
			change = -change
		}
		userID := principal.UserID
		if _, err := store.CreateLog(ctx, &models.InventoryLog{
			ItemID:           locked.ID,
			UserID:           &userID,
			Action:           action,
			QuantityChange:   change,
			PreviousQuantity: previous,
			NewQuantity:      locked.Quantity,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert log")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}

	updated, err := s.store.FindByID(ctx, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return NewItemDTO(updated), nil
}

// AdjustQuantity applies a signed delta under a row lock. Negative results
// floor at zero and the log records the applied magnitude, not the request.
// An adjustment that changes nothing, including a removal from an already
// empty item, is rejected before any write.
func (s *service) AdjustQuantity(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, input AdjustInput) (*AdjustResult, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must be non-zero")
	}

	var result AdjustResult
	if err := s.tx.RunInTx(ctx, func(store itemStore) error {
		item, err := store.FindByIDForUpdate(ctx, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock item")
		}
		if item.OwnerID != principal.UserID && !principal.IsStaff {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}

		previous := item.Quantity
		next := previous + input.Delta
		if next < 0 {
			next = 0
		}
		// removing from an empty item would log a zero change, same as delta=0
		if next == previous {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity is already zero")
		}
		item.Quantity = next

		if _, err := store.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
		}

		action := enums.LogActionAdd
		if input.Delta < 0 {
			action = enums.LogActionRemove
		}
		applied := next - previous
		if applied < 0 {
			applied = -applied
		}
		userID := principal.UserID
		log, err := store.CreateLog(ctx, &models.InventoryLog{
			ItemID:           item.ID,
			UserID:           &userID,
			Action:           action,
			QuantityChange:   applied,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Notes:            input.Notes,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert log")
		}

		result.Item = NewItemDTO(item)
		result.Log = NewLogDTO(log)
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust quantity")
	}

	return &result, nil
}

// DeleteItem removes an item. Only the owner may delete; staff can see the
// item but not delete it on the owner's behalf.
func (s *service) DeleteItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) error {
	item, err := s.visibleItem(ctx, principal, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != principal.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can delete an item")
	}

	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return nil
}

func (s *service) StockLevelReport(ctx context.Context, principal pkgAuth.Principal) ([]StockLevelRow, error) {
	rows, err := s.store.StockLevels(ctx, ownerScope(principal))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: stock levels")
	}
	return rows, nil
}

func (s *service) ItemStockLevel(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) (*StockLevelRow, error) {
	item, err := s.visibleItem(ctx, principal, itemID)
	if err != nil {
		return nil, err
	}
	row := StockLevelRow{
		ItemID:    item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		StockBand: ClassifyStock(item.Quantity),
	}
	if item.Category != nil {
		name := item.Category.Name
		row.CategoryName = &name
	}
	return &row, nil
}

func (s *service) LowStockItems(ctx context.Context, principal pkgAuth.Principal) ([]ItemDTO, error) {
	rows, err := s.store.ListLowStock(ctx, ownerScope(principal))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: low stock items")
	}
	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewItemDTO(&rows[i]))
	}
	return dtos, nil
}

// visibleItem loads the item and hides it from callers without access.
func (s *service) visibleItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	if item.OwnerID != principal.UserID && !principal.IsStaff {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return item, nil
}

func (s *service) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	return nil
}

func ownerScope(principal pkgAuth.Principal) *uuid.UUID {
	if principal.IsStaff {
		return nil
	}
	id := principal.UserID
	return &id
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func applyUpdateToItem(item *models.InventoryItem, input UpdateItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.ClearCategory {
		item.CategoryID = nil
	} else if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
	}
	if input.SKU != nil {
		item.SKU = normalizeSKU(input.SKU)
	}
	if input.Location != nil {
		item.Location = input.Location
	}
	if input.LowStockThreshold != nil {
		item.LowStockThreshold = *input.LowStockThreshold
	}
}
