package shop

import "context"

// RestockResult is what the return/restock orchestration hands back:
// the restocked order and, when one was claimed, the waitlist entry the
// caller should notify.
type RestockResult struct {
	Order  Order
	Waiter *WaitlistEntry
}

// Store abstracts the persistence backend. Operations that touch more
// than one counter or record (CreateOrder, MarkReturned, RestockReturned)
// are atomic: they fully succeed or leave nothing changed.
//
// Backends: PGStore for production, MemStore for tests and the "memory"
// backend mode.
type Store interface {
	CreateProduct(ctx context.Context, p Product) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	RestockProduct(ctx context.Context, id string, qty int) (Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// CreateOrder reserves o.Quantity units of the product and inserts the
	// order as one unit of work. ErrNotFound if the product is absent,
	// ErrInsufficientStock if fewer than o.Quantity units are available.
	CreateOrder(ctx context.Context, o Order) (Order, error)
	ListOrders(ctx context.Context) ([]OrderView, error)
	// ShipOrder archives the order (ship = delete, no history retained).
	ShipOrder(ctx context.Context, id string) error
	// MarkReturned transitions PENDING -> RETURNED and quarantines the
	// order's quantity. The transition still happens when the product row
	// was deleted in the meantime; there is nothing left to quarantine.
	MarkReturned(ctx context.Context, id string) (Order, error)
	// RestockReturned transitions RETURNED -> RESTOCKED, releases the
	// order's quantity from quarantine back to available and claims the
	// oldest unnotified waitlist entry for the product, all atomically.
	RestockReturned(ctx context.Context, id string) (RestockResult, error)

	JoinWaitlist(ctx context.Context, e WaitlistEntry) (WaitlistEntry, error)
	// NextWaiter returns the oldest entry with notified=false for the
	// product, or nil when nobody is waiting.
	NextWaiter(ctx context.Context, productID string) (*WaitlistEntry, error)
	// MarkNotified is idempotent.
	MarkNotified(ctx context.Context, entryID string) error
}
