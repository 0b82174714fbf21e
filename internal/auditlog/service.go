package auditlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

// Service exposes read-only audit log queries.
type Service interface {
	ListLogs(ctx context.Context, principal pkgAuth.Principal, input ListLogsInput) (*LogListResult, error)
	ListItemLogs(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, params pagination.Params) (*LogListResult, error)
}

// ListLogsInput bundles filters, ordering, and pagination for the listing.
type ListLogsInput struct {
	Pagination pagination.Params
	Filters    LogFilters
	Ordering   Ordering
}

type logStore interface {
	List(ctx context.Context, query logListQuery) (*LogListResult, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	store logStore
}

// NewService constructs an audit log service instance.
func NewService(store logStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("audit log repository required")
	}
	return &service{store: store}, nil
}

func (s *service) ListLogs(ctx context.Context, principal pkgAuth.Principal, input ListLogsInput) (*LogListResult, error) {
	if input.Filters.Action != nil && !input.Filters.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid action %q", *input.Filters.Action))
	}
	ordering := input.Ordering
	if ordering == "" {
		ordering = OrderTimestampDesc
	}

	result, err := s.store.List(ctx, logListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		Ordering:   ordering,
		OwnerID:    ownerScope(principal),
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list logs")
	}
	return result, nil
}

// ListItemLogs verifies the item is visible to the caller before listing.
func (s *service) ListItemLogs(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID, params pagination.Params) (*LogListResult, error) {
	item, err := s.store.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	if item.OwnerID != principal.UserID && !principal.IsStaff {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}

	result, err := s.store.List(ctx, logListQuery{
		Pagination: params,
		Filters:    LogFilters{ItemID: &itemID},
		Ordering:   OrderTimestampDesc,
		OwnerID:    nil,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list item logs")
	}
	return result, nil
}

func ownerScope(principal pkgAuth.Principal) *uuid.UUID {
	if principal.IsStaff {
		return nil
	}
	id := principal.UserID
	return &id
}
