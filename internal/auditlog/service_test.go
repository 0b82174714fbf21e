package auditlog

import (
	"context"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"testing"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/pagination"
)

type fakeLogStore struct {
	items     map[uuid.UUID]*models.InventoryItem
	lastQuery logListQuery
	result    *LogListResult
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{
		items:  make(map[uuid.UUID]*models.InventoryItem),
		result: &LogListResult{Logs: []LogEntryDTO{}},
	}
}

func (f *fakeLogStore) List(_ context.Context, query logListQuery) (*LogListResult, error) {
	f.lastQuery = query
	return f.result, nil
}

func (f *fakeLogStore) FindItem(_ context.Context, itemID uuid.UUID) (*models.InventoryItem, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (f *fakeLogStore) addItem(ownerID uuid.UUID) *models.InventoryItem {
	item := &models.InventoryItem{
		ID:      uuid.New(),
		Name:    "Hex Bolts",
		OwnerID: ownerID,
	}
	f.items[item.ID] = item
	return item
}

func newLogService(t *testing.T, store logStore) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestListLogsScopesToOwner(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)
	owner := pkgAuth.Principal{UserID: uuid.New()}

	if _, err := svc.ListLogs(context.Background(), owner, ListLogsInput{}); err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if store.lastQuery.OwnerID == nil || *store.lastQuery.OwnerID != owner.UserID {
		t.Fatalf("expected owner scope %s, got %v", owner.UserID, store.lastQuery.OwnerID)
	}
	if store.lastQuery.Ordering != OrderTimestampDesc {
		t.Fatalf("expected default ordering, got %q", store.lastQuery.Ordering)
	}
}

func TestListLogsStaffSeesAllOwners(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)
	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}

	if _, err := svc.ListLogs(context.Background(), staff, ListLogsInput{Ordering: OrderItemName}); err != nil {
		t.Fatalf("ListLogs: %v", err)
	}
	if store.lastQuery.OwnerID != nil {
		t.Fatalf("expected unscoped query for staff, got owner %v", store.lastQuery.OwnerID)
	}
	if store.lastQuery.Ordering != OrderItemName {
		t.Fatalf("expected item name ordering, got %q", store.lastQuery.Ordering)
	}
}

func TestListLogsRejectsInvalidAction(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)
	bad := enums.LogAction("DESTROY")

	_, err := svc.ListLogs(context.Background(), pkgAuth.Principal{UserID: uuid.New()}, ListLogsInput{
		Filters: LogFilters{Action: &bad},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListItemLogsHidesForeignItem(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)
	item := store.addItem(uuid.New())
	stranger := pkgAuth.Principal{UserID: uuid.New()}

	_, err := svc.ListItemLogs(context.Background(), stranger, item.ID, pagination.Params{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign item, got %v", err)
	}
}

func TestListItemLogsStaffOverride(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)
	item := store.addItem(uuid.New())
	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}

	if _, err := svc.ListItemLogs(context.Background(), staff, item.ID, pagination.Params{}); err != nil {
		t.Fatalf("ListItemLogs: %v", err)
	}
	if store.lastQuery.Filters.ItemID == nil || *store.lastQuery.Filters.ItemID != item.ID {
		t.Fatalf("expected item filter %s, got %v", item.ID, store.lastQuery.Filters.ItemID)
	}
	if store.lastQuery.OwnerID != nil {
		t.Fatalf("item listing should not double-scope by owner")
	}
}

func TestListItemLogsUnknownItem(t *testing.T) {
	store := newFakeLogStore()
	svc := newLogService(t, store)

	_, err := svc.ListItemLogs(context.Background(), pkgAuth.Principal{UserID: uuid.New()}, uuid.New(), pagination.Params{})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestParseOrdering(t *testing.T) {
	cases := []struct {
		raw     string
		want    Ordering
		wantErr bool
	}{
		{raw: "", want: OrderTimestampDesc},
		{raw: "timestamp_desc", want: OrderTimestampDesc},
		{raw: "timestamp_asc", want: OrderTimestampAsc},
		{raw: "item_name", want: OrderItemName},
		{raw: "price", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseOrdering(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseOrdering(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseOrdering(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseOrdering(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestOffsetCursorRoundTrip(t *testing.T) {
	encoded := encodeOffsetCursor(40)
	offset, err := parseOffsetCursor(encoded)
	if err != nil {
		t.Fatalf("parseOffsetCursor: %v", err)
	}
	if offset != 40 {
		t.Fatalf("expected offset 40, got %d", offset)
	}
	if _, err := parseOffsetCursor("not-base64!!"); err == nil {
		t.Fatalf("expected error for malformed cursor")
	}
}
