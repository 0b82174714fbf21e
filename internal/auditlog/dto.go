package auditlog

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

// Ordering selects how the log listing is sorted.
type Ordering string

const (
	OrderTimestampDesc Ordering = "timestamp_desc"
	OrderTimestampAsc  Ordering = "timestamp_asc"
	OrderItemName      Ordering = "item_name"
)

// ParseOrdering validates raw ordering input, defaulting to newest first.
func ParseOrdering(value string) (Ordering, error) {
	switch Ordering(value) {
	case "", OrderTimestampDesc:
		return OrderTimestampDesc, nil
	case OrderTimestampAsc:
		return OrderTimestampAsc, nil
	case OrderItemName:
		return OrderItemName, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid ordering %q", value))
	}
}

// LogEntryDTO represents a single audit log row joined with its item name.
type LogEntryDTO struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	UserID           *uuid.UUID      `json:"user_id,omitempty"`
	Action           enums.LogAction `json:"action"`
	QuantityChange   int             `json:"quantity_change"`
	PreviousQuantity int             `json:"previous_quantity"`
	NewQuantity      int             `json:"new_quantity"`
	Timestamp        time.Time       `json:"timestamp"`
	Notes            *string         `json:"notes,omitempty"`
}

// LogListResult carries one page of logs plus the continuation cursor.
type LogListResult struct {
	Logs       []LogEntryDTO `json:"logs"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Logs page by offset because item-name ordering has no stable keyset.
func encodeOffsetCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func parseOffsetCursor(value string) (int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	return offset, nil
}
