package shop

import (
	"context"
	"errors"
	"testing"
)

func mustProduct(t *testing.T, s Store, title string, price, stock int) Product {
	t.Helper()
	p, err := s.CreateProduct(context.Background(), Product{
		Title: title, PriceCents: price, Stock: Stock{Available: stock},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func mustOrder(t *testing.T, s Store, productID string, qty int) Order {
	t.Helper()
	o, err := s.CreateOrder(context.Background(), Order{
		ProductID:     productID,
		CustomerName:  "Siti Rahma",
		Phone:         "03123456789",
		Address:       "Jl. Kenanga No. 12, Jakarta",
		PaymentMethod: PaymentCOD,
		Quantity:      qty,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

// Full lifecycle: order reserves, return quarantines the order quantity,
// restock releases it back and ends in RESTOCKED.
func TestReturnRestockLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 10)
	o := mustOrder(t, s, p.ID, 3)
	if o.Status != StatusPending {
		t.Fatalf("status = %s, want PENDING", o.Status)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Available != 7 {
		t.Fatalf("available = %d, want 7", got.Stock.Available)
	}

	ret, err := s.MarkReturned(ctx, o.ID)
	if err != nil {
		t.Fatalf("mark returned: %v", err)
	}
	if ret.Status != StatusReturned {
		t.Fatalf("status = %s, want RETURNED", ret.Status)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Quarantined != 3 || got.Stock.Available != 7 {
		t.Fatalf("unexpected stock after return: %+v", got.Stock)
	}

	res, err := s.RestockReturned(ctx, o.ID)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if res.Order.Status != StatusRestocked {
		t.Fatalf("status = %s, want RESTOCKED", res.Order.Status)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Available != 10 || got.Stock.Quarantined != 0 {
		t.Fatalf("unexpected stock after restock: %+v", got.Stock)
	}
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 2)
	mustOrder(t, s, p.ID, 2) // drains stock

	_, err := s.CreateOrder(ctx, Order{ProductID: p.ID, Quantity: 1})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Available != 0 {
		t.Fatalf("available = %d, want 0", got.Stock.Available)
	}

	// no order record may exist for the failed reservation
	views, _ := s.ListOrders(ctx)
	if len(views) != 1 {
		t.Fatalf("orders = %d, want 1", len(views))
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	s := NewMemStore()
	_, err := s.CreateOrder(context.Background(), Order{ProductID: "nope", Quantity: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Second return of the same order is rejected and must not quarantine
// again.
func TestMarkReturned_Twice(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	o := mustOrder(t, s, p.ID, 1)

	if _, err := s.MarkReturned(ctx, o.ID); err != nil {
		t.Fatalf("first return: %v", err)
	}
	if _, err := s.MarkReturned(ctx, o.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Quarantined != 1 {
		t.Fatalf("quarantined = %d, want 1", got.Stock.Quarantined)
	}
}

func TestRestockReturned_RequiresReturnedState(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	o := mustOrder(t, s, p.ID, 2)

	_, err := s.RestockReturned(ctx, o.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Available != 3 || got.Stock.Quarantined != 0 {
		t.Fatalf("stock mutated by rejected restock: %+v", got.Stock)
	}

	// and it is terminal once restocked
	if _, err := s.MarkReturned(ctx, o.ID); err != nil {
		t.Fatalf("mark returned: %v", err)
	}
	if _, err := s.RestockReturned(ctx, o.ID); err != nil {
		t.Fatalf("restock: %v", err)
	}
	if _, err := s.RestockReturned(ctx, o.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second restock, got %v", err)
	}
}

// Restock claims the oldest unnotified waiter exactly once.
func TestRestockReturned_ClaimsOldestWaiter(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	first, _ := s.JoinWaitlist(ctx, WaitlistEntry{ProductID: p.ID, CustomerName: "Andi", CustomerPhone: "03111111111"})
	second, _ := s.JoinWaitlist(ctx, WaitlistEntry{ProductID: p.ID, CustomerName: "Budi", CustomerPhone: "03122222222"})

	o1 := mustOrder(t, s, p.ID, 1)
	o2 := mustOrder(t, s, p.ID, 1)
	for _, id := range []string{o1.ID, o2.ID} {
		if _, err := s.MarkReturned(ctx, id); err != nil {
			t.Fatalf("mark returned: %v", err)
		}
	}

	res, err := s.RestockReturned(ctx, o1.ID)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if res.Waiter == nil || res.Waiter.ID != first.ID {
		t.Fatalf("expected waiter %s, got %+v", first.ID, res.Waiter)
	}
	if !res.Waiter.Notified {
		t.Fatalf("claimed waiter not marked notified")
	}

	res, err = s.RestockReturned(ctx, o2.ID)
	if err != nil {
		t.Fatalf("second restock: %v", err)
	}
	if res.Waiter == nil || res.Waiter.ID != second.ID {
		t.Fatalf("expected waiter %s, got %+v", second.ID, res.Waiter)
	}

	// nobody left
	w, err := s.NextWaiter(ctx, p.ID)
	if err != nil || w != nil {
		t.Fatalf("expected no waiter, got %+v (%v)", w, err)
	}
}

func TestMarkNotified_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 1)
	e, _ := s.JoinWaitlist(ctx, WaitlistEntry{ProductID: p.ID, CustomerName: "Andi", CustomerPhone: "03111111111"})

	if err := s.MarkNotified(ctx, e.ID); err != nil {
		t.Fatalf("mark notified: %v", err)
	}
	if err := s.MarkNotified(ctx, e.ID); err != nil {
		t.Fatalf("second mark notified: %v", err)
	}
	if w, _ := s.NextWaiter(ctx, p.ID); w != nil {
		t.Fatalf("expected no waiter, got %+v", w)
	}
}

func TestListOrders_TombstoneForDeletedProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	mustOrder(t, s, p.ID, 1)

	if err := s.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	views, err := s.ListOrders(ctx)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("orders = %d, want 1", len(views))
	}
	ref := views[0].Product
	if !ref.Deleted || ref.ID != p.ID {
		t.Fatalf("expected tombstone ref for %s, got %+v", p.ID, ref)
	}
}

func TestListOrders_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	o1 := mustOrder(t, s, p.ID, 1)
	o2 := mustOrder(t, s, p.ID, 1)

	views, _ := s.ListOrders(ctx)
	if len(views) != 2 || views[0].ID != o2.ID || views[1].ID != o1.ID {
		t.Fatalf("unexpected order listing: %+v", views)
	}
	if views[0].Product.Title != "Widget" {
		t.Fatalf("resolved product title = %q", views[0].Product.Title)
	}
}

func TestShipOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	o := mustOrder(t, s, p.ID, 1)

	if err := s.ShipOrder(ctx, o.ID); err != nil {
		t.Fatalf("ship: %v", err)
	}
	// archive = delete, no record left
	if views, _ := s.ListOrders(ctx); len(views) != 0 {
		t.Fatalf("orders = %d, want 0", len(views))
	}
	if err := s.ShipOrder(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// shipped stock stays sold
	if got, _ := s.GetProduct(ctx, p.ID); got.Stock.Available != 4 {
		t.Fatalf("available = %d, want 4", got.Stock.Available)
	}
}

// Returning an order whose product was deleted still transitions the
// order; restocking it then fails with not-found.
func TestReturn_DeletedProduct(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 5)
	o := mustOrder(t, s, p.ID, 1)
	if err := s.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	ret, err := s.MarkReturned(ctx, o.ID)
	if err != nil {
		t.Fatalf("mark returned: %v", err)
	}
	if ret.Status != StatusReturned {
		t.Fatalf("status = %s, want RETURNED", ret.Status)
	}
	if _, err := s.RestockReturned(ctx, o.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRestockProduct_DirectTopUp(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	p := mustProduct(t, s, "Widget", 10000, 2)
	got, err := s.RestockProduct(ctx, p.ID, 8)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if got.Stock.Available != 10 {
		t.Fatalf("available = %d, want 10", got.Stock.Available)
	}
	if _, err := s.RestockProduct(ctx, "nope", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RestockProduct(ctx, p.ID, 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
