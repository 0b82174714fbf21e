package auditlog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

// LogFilters narrows the audit log listing.
type LogFilters struct {
	ItemID *uuid.UUID
	UserID *uuid.UUID
	Action *enums.LogAction
}

type logListQuery struct {
	Pagination pagination.Params
	Filters    LogFilters
	Ordering   Ordering
	OwnerID    *uuid.UUID
}

// Repository reads the append-only audit log. There are no write paths here;
// log rows are created by the inventory mutation engine only.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns one page of logs visible within the owner scope.
func (r *Repository) List(ctx context.Context, query logListQuery) (*LogListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	qb := r.db.WithContext(ctx).
		Table("inventory_logs l").
		Select(strings.Join([]string{
			"l.id",
			"l.item_id",
			"i.name AS item_name",
			"l.user_id",
			"l.action",
			"l.quantity_change",
			"l.previous_quantity",
			"l.new_quantity",
			"l.timestamp",
			"l.notes",
		}, ", ")).
		Joins("JOIN inventory_items i ON i.id = l.item_id")

	if query.OwnerID != nil {
		qb = qb.Where("i.owner_id = ?", *query.OwnerID)
	}

	filter := query.Filters
	if filter.ItemID != nil {
		qb = qb.Where("l.item_id = ?", *filter.ItemID)
	}
	if filter.UserID != nil {
		qb = qb.Where("l.user_id = ?", *filter.UserID)
	}
	if filter.Action != nil {
		qb = qb.Where("l.action = ?", *filter.Action)
	}

	switch query.Ordering {
	case OrderTimestampAsc:
		qb = qb.Order("l.timestamp ASC").Order("l.id ASC")
	case OrderItemName:
		qb = qb.Order("i.name ASC").Order("l.timestamp DESC")
	default:
		qb = qb.Order("l.timestamp DESC").Order("l.id DESC")
	}

	offset := 0
	if query.Pagination.Cursor != "" {
		parsed, err := parseOffsetCursor(query.Pagination.Cursor)
		if err != nil {
			return nil, err
		}
		offset = parsed
	}
	qb = qb.Offset(offset).Limit(limitWithBuffer)

	var records []logRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		nextCursor = encodeOffsetCursor(offset + pageSize)
	}

	logs := make([]LogEntryDTO, 0, len(resultRows))
	for _, record := range resultRows {
		logs = append(logs, record.toDTO())
	}

	return &LogListResult{
		Logs:       logs,
		NextCursor: nextCursor,
	}, nil
}

// FindItem loads the referenced item for ownership checks.
func (r *Repository) FindItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type logRecord struct {
	ID               uuid.UUID
	ItemID           uuid.UUID
	ItemName         string
	UserID           *uuid.UUID
	Action           enums.LogAction
	QuantityChange   int
	PreviousQuantity int
	NewQuantity      int
	Timestamp        time.Time
	Notes            sql.NullString
}

func (r logRecord) toDTO() LogEntryDTO {
	dto := LogEntryDTO{
		ID:               r.ID,
		ItemID:           r.ItemID,
		ItemName:         r.ItemName,
		UserID:           r.UserID,
		Action:           r.Action,
		QuantityChange:   r.QuantityChange,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		Timestamp:        r.Timestamp,
	}
	if r.Notes.Valid {
		notes := r.Notes.String
		dto.Notes = &notes
	}
	return dto
}
