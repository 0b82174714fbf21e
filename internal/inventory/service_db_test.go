package inventory

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Runs two adjustments against the same row at once. The row lock inside the
// transaction must serialize them so neither update is lost and the log rows
// chain previous -> new without gaps.
func TestAdjustQuantitySerializesConcurrentDeltas(t *testing.T) {
	dsn := os.Getenv("STOCKROOM_DB_DSN")
	if dsn == "" {
		t.Skip("STOCKROOM_DB_DSN is not set")
	}

	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	conn := client.DB()
	owner := mustCreateTestUser(t, conn)
	item := mustCreateTestItem(t, conn, owner.ID, 10)
	t.Cleanup(func() {
		conn.Exec("DELETE FROM inventory_items WHERE id = ?", item.ID)
		conn.Exec("DELETE FROM users WHERE id = ?", owner.ID)
	})

	repo := NewRepository(conn)
	svc, err := NewService(repo, client, fakeCategoryLoader{rows: map[uuid.UUID]*models.Category{}})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	principal := pkgAuth.Principal{UserID: owner.ID}
	deltas := []int{5, -3}
	errs := make(chan error, len(deltas))
	var wg sync.WaitGroup
	for _, delta := range deltas {
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			_, err := svc.AdjustQuantity(ctx, principal, item.ID, AdjustInput{Delta: delta})
			errs <- err
		}(delta)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("adjust: %v", err)
		}
	}

	final, err := repo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if final.Quantity != 12 {
		t.Fatalf("expected quantity 12 after both adjustments, got %d", final.Quantity)
	}

	var logs []models.InventoryLog
	if err := conn.Where("item_id = ?", item.ID).Find(&logs).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 log rows, got %d", len(logs))
	}

	first, second := logs[0], logs[1]
	if first.PreviousQuantity != 10 {
		first, second = second, first
	}
	if first.PreviousQuantity != 10 {
		t.Fatalf("no log starts from the initial quantity: %+v", logs)
	}
	if second.PreviousQuantity != first.NewQuantity {
		t.Fatalf("log chain broken: %+v then %+v", first, second)
	}
	if second.NewQuantity != 12 {
		t.Fatalf("expected chain to end at 12, got %d", second.NewQuantity)
	}
	for _, entry := range logs {
		applied := entry.NewQuantity - entry.PreviousQuantity
		if applied < 0 {
			applied = -applied
		}
		if entry.QuantityChange != applied {
			t.Fatalf("log %s records change %d for a %d -> %d move", entry.ID, entry.QuantityChange, entry.PreviousQuantity, entry.NewQuantity)
		}
	}
}
