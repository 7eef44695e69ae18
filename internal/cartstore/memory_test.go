package cartstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/money"
)

func testSnapshot(cartID string, totalCents int64) *quote.CartSnapshot {
	return &quote.CartSnapshot{
		CartID: cartID,
		Items: []quote.CartItem{
			{
				ItemID:    "item-" + cartID,
				ProductID: "prod-001",
				Quantity:  1,
				Price:     money.Money{Amount: totalCents, Currency: "PLN"},
			},
		},
		Computed: quote.CartComputed{
			Subtotal: money.Money{Amount: totalCents, Currency: "PLN"},
			Delivery: money.Zero("PLN"),
			Total:    money.Money{Amount: totalCents, Currency: "PLN"},
		},
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot("c1", 12900)); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CartID != "c1" || got.Computed.Total.Amount != 12900 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "c-none")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", pkgerrors.CodeNotFound, code)
	}
}

func TestMemoryStoreSaveReplacesWholesale(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot("c1", 12900)); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.Save(ctx, testSnapshot("c1", 45900)); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Computed.Total.Amount != 45900 {
		t.Fatalf("expected last write to win, got total %d", got.Computed.Total.Amount)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected replaced item list, got %d items", len(got.Items))
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot("c1", 12900)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Remove(ctx, "c1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "c1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected removed snapshot to be gone, got %v", err)
	}

	// removing again is a no-op
	if err := store.Remove(ctx, "c1"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, testSnapshot("c1", 12900)); err != nil {
		t.Fatalf("save: %v", err)
	}

	first, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	first.Items[0].Quantity = 42

	second, err := store.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}
	if second.Items[0].Quantity != 1 {
		t.Fatalf("stored snapshot mutated through returned copy: %+v", second.Items[0])
	}
}

func TestMemoryStoreRejectsBlankCartID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, ""); err == nil {
		t.Fatal("expected error for blank cart id")
	}
	if err := store.Save(ctx, &quote.CartSnapshot{}); err == nil {
		t.Fatal("expected error for snapshot without cart id")
	}
	if err := store.Remove(ctx, ""); err == nil {
		t.Fatal("expected error for blank cart id")
	}
}

func TestMemoryStoreConcurrentWriters(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cartID := fmt.Sprintf("c%d", n%5)
			_ = store.Save(ctx, testSnapshot(cartID, int64(n)))
			_, _ = store.Get(ctx, cartID)
			if n%10 == 0 {
				_ = store.Remove(ctx, cartID)
			}
		}(i)
	}
	wg.Wait()
}
