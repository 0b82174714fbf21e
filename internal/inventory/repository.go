package inventory

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

// ItemListFilters narrows the item listing.
type ItemListFilters struct {
	Category string
	Location *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	LowStock *int
	Query    string
}

type itemListQuery struct {
	Pagination pagination.Params
	Filters    ItemListFilters
	OwnerID    *uuid.UUID
}

// ItemListResult carries one page of items plus the continuation cursor.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// Repository wires together item and log persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateItem inserts a new item row.
func (r *Repository) CreateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads the item with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Preload("Category").
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDForUpdate loads the item under a row lock. Call inside a transaction.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem persists the mutated item row.
func (r *Repository) UpdateItem(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item; logs and supplier links cascade.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.InventoryItem{}).Error
}

// CreateLog appends an audit log entry. Entries are never updated or deleted.
func (r *Repository) CreateLog(ctx context.Context, log *models.InventoryLog) (*models.InventoryLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

// ListItems returns one owner-scoped page of items matching the filters.
func (r *Repository) ListItems(ctx context.Context, query itemListQuery) (*ItemListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("inventory_items i").
		Select(strings.Join([]string{
			"i.id",
			"i.name",
			"i.description",
			"i.quantity",
			"i.price",
			"i.category_id",
			"c.name AS category_name",
			"i.owner_id",
			"i.sku",
			"i.location",
			"i.low_stock_threshold",
			"i.created_at",
			"i.updated_at",
		}, ", ")).
		Joins("LEFT JOIN categories c ON c.id = i.category_id")

	if query.OwnerID != nil {
		qb = qb.Where("i.owner_id = ?", *query.OwnerID)
	}

	filter := query.Filters
	if category := strings.TrimSpace(filter.Category); category != "" {
		qb = qb.Where("LOWER(c.name) LIKE ?", "%"+strings.ToLower(category)+"%")
	}
	if filter.Location != nil {
		qb = qb.Where("i.location = ?", *filter.Location)
	}
	if filter.MinPrice != nil {
		qb = qb.Where("i.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		qb = qb.Where("i.price <= ?", *filter.MaxPrice)
	}
	if filter.LowStock != nil {
		qb = qb.Where("i.quantity <= ?", *filter.LowStock)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(i.name) LIKE ? OR LOWER(i.description) LIKE ? OR LOWER(i.sku) LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(i.created_at < ?) OR (i.created_at = ? AND i.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("i.created_at DESC").Order("i.id DESC").Limit(limitWithBuffer)

	var records []itemListRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	items := make([]ItemDTO, 0, len(resultRows))
	for _, record := range resultRows {
		items = append(items, record.toDTO())
	}

	return &ItemListResult{
		Items:      items,
		NextCursor: nextCursor,
	}, nil
}

// StockLevels returns the report rows, optionally scoped to one owner.
func (r *Repository) StockLevels(ctx context.Context, ownerID *uuid.UUID) ([]StockLevelRow, error) {
	qb := r.db.WithContext(ctx).
		Table("inventory_items i").
		Select("i.id, i.name, i.quantity, c.name AS category_name").
		Joins("LEFT JOIN categories c ON c.id = i.category_id").
		Order("i.name ASC")
	if ownerID != nil {
		qb = qb.Where("i.owner_id = ?", *ownerID)
	}

	type levelRecord struct {
		ID           uuid.UUID
		Name         string
		Quantity     int
		CategoryName sql.NullString
	}
	var records []levelRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	rows := make([]StockLevelRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, StockLevelRow{
			ItemID:       record.ID,
			Name:         record.Name,
			Quantity:     record.Quantity,
			StockBand:    ClassifyStock(record.Quantity),
			CategoryName: nullStringPtr(record.CategoryName),
		})
	}
	return rows, nil
}

// ListLowStock returns items at or below their alert threshold.
func (r *Repository) ListLowStock(ctx context.Context, ownerID *uuid.UUID) ([]models.InventoryItem, error) {
	qb := r.db.WithContext(ctx).
		Preload("Category").
		Where("quantity <= low_stock_threshold").
		Order("name ASC")
	if ownerID != nil {
		qb = qb.Where("owner_id = ?", *ownerID)
	}

	var rows []models.InventoryItem
	err := qb.Find(&rows).Error
	return rows, err
}

type itemListRecord struct {
	ID                uuid.UUID
	Name              string
	Description       sql.NullString
	Quantity          int
	Price             decimal.Decimal
	CategoryID        *uuid.UUID
	CategoryName      sql.NullString
	OwnerID           uuid.UUID
	SKU               sql.NullString
	Location          sql.NullString
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r itemListRecord) toDTO() ItemDTO {
	return ItemDTO{
		ID:                r.ID,
		Name:              r.Name,
		Description:       nullStringPtr(r.Description),
		Quantity:          r.Quantity,
		Price:             r.Price,
		CategoryID:        r.CategoryID,
		CategoryName:      nullStringPtr(r.CategoryName),
		OwnerID:           r.OwnerID,
		SKU:               nullStringPtr(r.SKU),
		Location:          nullStringPtr(r.Location),
		LowStockThreshold: r.LowStockThreshold,
		IsLowStock:        r.Quantity <= r.LowStockThreshold,
		StockBand:         ClassifyStock(r.Quantity),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
