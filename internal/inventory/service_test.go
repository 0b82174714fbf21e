package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

func TestCreateItemWritesInitialLog(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}

	dto, err := svc.CreateItem(context.Background(), owner, CreateItemInput{
		Name:     "Widget",
		Quantity: 7,
		Price:    decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if dto.OwnerID != owner.UserID {
		t.Fatalf("expected owner %s got %s", owner.UserID, dto.OwnerID)
	}
	if dto.LowStockThreshold != models.DefaultLowStockThreshold {
		t.Fatalf("expected default threshold, got %d", dto.LowStockThreshold)
	}

	logs := store.logsFor(dto.ID)
	if len(logs) != 1 {
		t.Fatalf("expected one log entry, got %d", len(logs))
	}
	log := logs[0]
	if log.Action != enums.LogActionAdd {
		t.Fatalf("expected ADD action, got %s", log.Action)
	}
	if log.PreviousQuantity != 0 || log.NewQuantity != 7 || log.QuantityChange != 7 {
		t.Fatalf("unexpected log values prev=%d new=%d change=%d", log.PreviousQuantity, log.NewQuantity, log.QuantityChange)
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc, _ := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"blank name", CreateItemInput{Name: "  ", Quantity: 1}},
		{"negative quantity", CreateItemInput{Name: "Widget", Quantity: -1}},
		{"negative price", CreateItemInput{Name: "Widget", Price: decimal.NewFromInt(-3)}},
		{"negative threshold", CreateItemInput{Name: "Widget", LowStockThreshold: intPtr(-1)}},
	}
	for _, tc := range cases {
		_, err := svc.CreateItem(context.Background(), owner, tc.input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	missing := uuid.New()

	_, err := svc.CreateItem(context.Background(), owner, CreateItemInput{
		Name:       "Widget",
		CategoryID: &missing,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateItemSynthesizesLogOnQuantityChange(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 10)

	dto, err := svc.UpdateItem(context.Background(), owner, item.ID, UpdateItemInput{Quantity: intPtr(4)})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if dto.Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", dto.Quantity)
	}

	logs := store.logsFor(item.ID)
	if len(logs) != 1 {
		t.Fatalf("expected one log entry, got %d", len(logs))
	}
	log := logs[0]
	if log.Action != enums.LogActionRemove {
		t.Fatalf("expected REMOVE, got %s", log.Action)
	}
	if log.QuantityChange != 6 || log.PreviousQuantity != 10 || log.NewQuantity != 4 {
		t.Fatalf("unexpected log values prev=%d new=%d change=%d", log.PreviousQuantity, log.NewQuantity, log.QuantityChange)
	}

	// increase path
	if _, err := svc.UpdateItem(context.Background(), owner, item.ID, UpdateItemInput{Quantity: intPtr(9)}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	logs = store.logsFor(item.ID)
	if len(logs) != 2 || logs[1].Action != enums.LogActionAdd || logs[1].QuantityChange != 5 {
		t.Fatalf("expected ADD of 5, got %+v", logs[len(logs)-1])
	}
}

func TestUpdateItemUnchangedQuantityWritesNoLog(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 10)

	name := "Renamed"
	if _, err := svc.UpdateItem(context.Background(), owner, item.ID, UpdateItemInput{
		Name:     &name,
		Quantity: intPtr(10),
	}); err != nil {
		t.Fatalf("update item: %v", err)
	}
	if len(store.logsFor(item.ID)) != 0 {
		t.Fatal("expected no log when quantity unchanged")
	}
}

func TestAdjustQuantityRejectsZeroDelta(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 10)

	_, err := svc.AdjustQuantity(context.Background(), owner, item.ID, AdjustInput{Delta: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAdjustQuantityAddAndRemove(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 10)

	result, err := svc.AdjustQuantity(context.Background(), owner, item.ID, AdjustInput{Delta: 5})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if result.Item.Quantity != 15 {
		t.Fatalf("expected quantity 15, got %d", result.Item.Quantity)
	}
	if result.Log.Action != enums.LogActionAdd || result.Log.QuantityChange != 5 {
		t.Fatalf("unexpected log %+v", result.Log)
	}

	result, err = svc.AdjustQuantity(context.Background(), owner, item.ID, AdjustInput{Delta: -3})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if result.Item.Quantity != 12 {
		t.Fatalf("expected quantity 12, got %d", result.Item.Quantity)
	}
	if result.Log.Action != enums.LogActionRemove || result.Log.QuantityChange != 3 {
		t.Fatalf("unexpected log %+v", result.Log)
	}
}

func TestAdjustQuantityFloorsAtZero(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 4)

	result, err := svc.AdjustQuantity(context.Background(), owner, item.ID, AdjustInput{Delta: -10})
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if result.Item.Quantity != 0 {
		t.Fatalf("expected floor at zero, got %d", result.Item.Quantity)
	}
	// the log records what was actually removed, not the requested delta
	if result.Log.QuantityChange != 4 || result.Log.PreviousQuantity != 4 || result.Log.NewQuantity != 0 {
		t.Fatalf("unexpected log %+v", result.Log)
	}
}

func TestAdjustQuantityRejectsRemovalFromEmptyItem(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 0)

	_, err := svc.AdjustQuantity(context.Background(), owner, item.ID, AdjustInput{Delta: -5})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if logs := store.logsFor(item.ID); len(logs) != 0 {
		t.Fatalf("expected no log rows, got %d", len(logs))
	}
}

func TestAdjustQuantityHidesForeignItems(t *testing.T) {
	svc, store := newTestService(t)
	owner := uuid.New()
	item := store.seed(owner, 10)

	stranger := pkgAuth.Principal{UserID: uuid.New()}
	_, err := svc.AdjustQuantity(context.Background(), stranger, item.ID, AdjustInput{Delta: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign item, got %v", err)
	}

	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}
	if _, err := svc.AdjustQuantity(context.Background(), staff, item.ID, AdjustInput{Delta: 1}); err != nil {
		t.Fatalf("staff adjust: %v", err)
	}
}

func TestDeleteItemOwnerOnly(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 10)

	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}
	err := svc.DeleteItem(context.Background(), staff, item.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for staff non-owner, got %v", err)
	}

	stranger := pkgAuth.Principal{UserID: uuid.New()}
	err = svc.DeleteItem(context.Background(), stranger, item.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	if err := svc.DeleteItem(context.Background(), owner, item.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := store.items[item.ID]; ok {
		t.Fatal("expected item to be deleted")
	}
}

func TestGetItemVisibility(t *testing.T) {
	svc, store := newTestService(t)
	owner := uuid.New()
	item := store.seed(owner, 10)

	stranger := pkgAuth.Principal{UserID: uuid.New()}
	_, err := svc.GetItem(context.Background(), stranger, item.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}
	if _, err := svc.GetItem(context.Background(), staff, item.ID); err != nil {
		t.Fatalf("staff get: %v", err)
	}
}

func TestItemStockLevelUsesBands(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}
	item := store.seed(owner.UserID, 25)

	row, err := svc.ItemStockLevel(context.Background(), owner, item.ID)
	if err != nil {
		t.Fatalf("stock level: %v", err)
	}
	if row.StockBand != enums.StockBandMedium {
		t.Fatalf("expected medium band, got %s", row.StockBand)
	}
}

func TestReportScopesToOwnerUnlessStaff(t *testing.T) {
	svc, store := newTestService(t)
	owner := pkgAuth.Principal{UserID: uuid.New()}

	if _, err := svc.StockLevelReport(context.Background(), owner); err != nil {
		t.Fatalf("report: %v", err)
	}
	if store.lastScope == nil || *store.lastScope != owner.UserID {
		t.Fatalf("expected owner scope, got %v", store.lastScope)
	}

	staff := pkgAuth.Principal{UserID: uuid.New(), IsStaff: true}
	if _, err := svc.StockLevelReport(context.Background(), staff); err != nil {
		t.Fatalf("report: %v", err)
	}
	if store.lastScope != nil {
		t.Fatalf("expected unscoped report for staff, got %v", store.lastScope)
	}
}

func intPtr(v int) *int { return &v }

// fakeStore keeps items and logs in memory and runs transactions inline.
type fakeStore struct {
	items     map[uuid.UUID]*models.InventoryItem
	logs      []models.InventoryLog
	lastScope *uuid.UUID
}

func (f *fakeStore) seed(ownerID uuid.UUID, quantity int) *models.InventoryItem {
	item := &models.InventoryItem{
		ID:                uuid.New(),
		Name:              "Seeded",
		Quantity:          quantity,
		OwnerID:           ownerID,
		LowStockThreshold: models.DefaultLowStockThreshold,
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeStore) logsFor(itemID uuid.UUID) []models.InventoryLog {
	var out []models.InventoryLog
	for _, log := range f.logs {
		if log.ItemID == itemID {
			out = append(out, log)
		}
	}
	return out
}

func (f *fakeStore) CreateItem(_ context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	item.ID = uuid.New()
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeStore) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeStore) UpdateItem(_ context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeStore) CreateLog(_ context.Context, log *models.InventoryLog) (*models.InventoryLog, error) {
	log.ID = uuid.New()
	f.logs = append(f.logs, *log)
	return log, nil
}

func (f *fakeStore) ListItems(_ context.Context, query itemListQuery) (*ItemListResult, error) {
	f.lastScope = query.OwnerID
	return &ItemListResult{}, nil
}

func (f *fakeStore) StockLevels(_ context.Context, ownerID *uuid.UUID) ([]StockLevelRow, error) {
	f.lastScope = ownerID
	return nil, nil
}

func (f *fakeStore) ListLowStock(_ context.Context, ownerID *uuid.UUID) ([]models.InventoryItem, error) {
	f.lastScope = ownerID
	return nil, nil
}

type inlineTxRunner struct {
	store itemStore
}

func (r inlineTxRunner) RunInTx(_ context.Context, fn func(store itemStore) error) error {
	return fn(r.store)
}

type fakeCategoryLoader struct {
	rows map[uuid.UUID]*models.Category
}

func (f fakeCategoryLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func newTestService(t *testing.T) (Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{items: map[uuid.UUID]*models.InventoryItem{}}
	svc := newServiceWithDeps(store, inlineTxRunner{store: store}, fakeCategoryLoader{rows: map[uuid.UUID]*models.Category{}})
	return svc, store
}
