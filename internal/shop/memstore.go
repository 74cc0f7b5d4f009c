package shop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is a mutex-guarded in-memory backend. It backs the package
// tests and the STORE_BACKEND=memory mode, where the API runs without
// Postgres. Insertion order is kept so listings can be newest-first and
// the waitlist oldest-first.
type MemStore struct {
	mu       sync.Mutex
	products map[string]Product
	orders   map[string]Order
	waitlist map[string]WaitlistEntry

	productSeq []string
	orderSeq   []string
	waitSeq    []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		products: make(map[string]Product),
		orders:   make(map[string]Order),
		waitlist: make(map[string]WaitlistEntry),
	}
}

func (s *MemStore) CreateProduct(ctx context.Context, p Product) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.products[p.ID] = p
	s.productSeq = append(s.productSeq, p.ID)
	return p, nil
}

func (s *MemStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Product, 0, len(s.products))
	for i := len(s.productSeq) - 1; i >= 0; i-- {
		if p, ok := s.products[s.productSeq[i]]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return p, nil
}

func (s *MemStore) RestockProduct(ctx context.Context, id string, qty int) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	st, err := Restock(p.Stock, qty)
	if err != nil {
		return Product{}, err
	}
	p.Stock = st
	p.UpdatedAt = time.Now().UTC()
	s.products[id] = p
	return p, nil
}

func (s *MemStore) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deleting an unknown id is not an error; the row is gone either way.
	delete(s.products, id)
	return nil
}

func (s *MemStore) CreateOrder(ctx context.Context, o Order) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[o.ProductID]
	if !ok {
		return Order{}, fmt.Errorf("%w: product %s", ErrNotFound, o.ProductID)
	}
	st, err := Reserve(p.Stock, o.Quantity)
	if err != nil {
		return Order{}, err
	}

	now := time.Now().UTC()
	o.ID = uuid.NewString()
	o.Status = StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	p.Stock = st
	p.UpdatedAt = now
	s.products[p.ID] = p
	s.orders[o.ID] = o
	s.orderSeq = append(s.orderSeq, o.ID)
	return o, nil
}

func (s *MemStore) ListOrders(ctx context.Context) ([]OrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]OrderView, 0, len(s.orders))
	for i := len(s.orderSeq) - 1; i >= 0; i-- {
		o, ok := s.orders[s.orderSeq[i]]
		if !ok {
			continue // shipped
		}
		ref := ProductRef{ID: o.ProductID, Deleted: true}
		if p, ok := s.products[o.ProductID]; ok {
			ref = ProductRef{ID: p.ID, Title: p.Title, PriceCents: p.PriceCents}
		}
		out = append(out, OrderView{Order: o, Product: ref})
	}
	return out, nil
}

func (s *MemStore) ShipOrder(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	delete(s.orders, id)
	return nil
}

func (s *MemStore) MarkReturned(ctx context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if !CanTransition(o.Status, StatusReturned) {
		return Order{}, fmt.Errorf("%w: order is already %s", ErrInvalidState, o.Status)
	}

	// The product may have been deleted since the order was placed; the
	// order still transitions, there is just nothing left to quarantine.
	if p, ok := s.products[o.ProductID]; ok {
		st, err := Quarantine(p.Stock, o.Quantity)
		if err != nil {
			return Order{}, err
		}
		p.Stock = st
		p.UpdatedAt = time.Now().UTC()
		s.products[p.ID] = p
	}

	o.Status = StatusReturned
	o.UpdatedAt = time.Now().UTC()
	s.orders[o.ID] = o
	return o, nil
}

func (s *MemStore) RestockReturned(ctx context.Context, id string) (RestockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return RestockResult{}, fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	if o.Status != StatusReturned {
		return RestockResult{}, fmt.Errorf("%w: order must be %s before restocking, is %s", ErrInvalidState, StatusReturned, o.Status)
	}
	p, ok := s.products[o.ProductID]
	if !ok {
		return RestockResult{}, fmt.Errorf("%w: product %s for order %s", ErrNotFound, o.ProductID, id)
	}
	st, err := Release(p.Stock, o.Quantity)
	if err != nil {
		return RestockResult{}, err
	}

	now := time.Now().UTC()
	p.Stock = st
	p.UpdatedAt = now
	s.products[p.ID] = p

	o.Status = StatusRestocked
	o.UpdatedAt = now
	s.orders[o.ID] = o

	res := RestockResult{Order: o}
	if w := s.nextWaiterLocked(o.ProductID); w != nil {
		w.Notified = true
		s.waitlist[w.ID] = *w
		res.Waiter = w
	}
	return res, nil
}

func (s *MemStore) JoinWaitlist(ctx context.Context, e WaitlistEntry) (WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.Notified = false
	e.CreatedAt = time.Now().UTC()
	s.waitlist[e.ID] = e
	s.waitSeq = append(s.waitSeq, e.ID)
	return e, nil
}

func (s *MemStore) NextWaiter(ctx context.Context, productID string) (*WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextWaiterLocked(productID), nil
}

func (s *MemStore) nextWaiterLocked(productID string) *WaitlistEntry {
	for _, id := range s.waitSeq {
		e, ok := s.waitlist[id]
		if ok && e.ProductID == productID && !e.Notified {
			return &e
		}
	}
	return nil
}

func (s *MemStore) MarkNotified(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.waitlist[entryID]
	if !ok {
		return fmt.Errorf("%w: waitlist entry %s", ErrNotFound, entryID)
	}
	e.Notified = true
	s.waitlist[entryID] = e
	return nil
}
