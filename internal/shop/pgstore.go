package shop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the Postgres backend. Stock counters are only ever changed
// through conditional updates (available >= qty, quarantined >= qty), so
// two concurrent reservations can never both pass the check. Multi-record
// operations run in a single transaction with the order and product rows
// locked FOR UPDATE.
type PGStore struct{ DB *pgxpool.Pool }

// wrap translates driver errors into the core taxonomy. Anything that is
// not a missing row is a storage failure from the caller's point of view.
func wrap(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, what, err)
}

func (s *PGStore) CreateProduct(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	err := s.DB.QueryRow(ctx, `
		INSERT INTO products(id, title, price_cents, image_url, available, quarantined)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.PriceCents, p.ImageURL, p.Stock.Available,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, wrap(err, "insert product")
	}
	p.Stock.Quarantined = 0
	return p, nil
}

func (s *PGStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT id, title, price_cents, image_url, available, quarantined, created_at, updated_at
		FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrap(err, "list products")
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Title, &p.PriceCents, &p.ImageURL,
			&p.Stock.Available, &p.Stock.Quarantined, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, wrap(rows.Err(), "list products")
}

func (s *PGStore) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.DB.QueryRow(ctx, `
		SELECT id, title, price_cents, image_url, available, quarantined, created_at, updated_at
		FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Title, &p.PriceCents, &p.ImageURL,
		&p.Stock.Available, &p.Stock.Quarantined, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, wrap(err, "product "+id)
	}
	return p, nil
}

func (s *PGStore) RestockProduct(ctx context.Context, id string, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	var p Product
	err := s.DB.QueryRow(ctx, `
		UPDATE products SET available = available + $2, updated_at = now()
		WHERE id=$1
		RETURNING id, title, price_cents, image_url, available, quarantined, created_at, updated_at`,
		id, qty,
	).Scan(&p.ID, &p.Title, &p.PriceCents, &p.ImageURL,
		&p.Stock.Available, &p.Stock.Quarantined, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, wrap(err, "product "+id)
	}
	return p, nil
}

func (s *PGStore) DeleteProduct(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return wrap(err, "delete product")
}

func (s *PGStore) CreateOrder(ctx context.Context, o Order) (Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, wrap(err, "begin create order")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Atomic check-and-decrement: the reservation only lands when enough
	// stock is available, in the same statement that takes it.
	ct, err := tx.Exec(ctx, `
		UPDATE products SET available = available - $2, updated_at = now()
		WHERE id=$1 AND available >= $2`, o.ProductID, o.Quantity)
	if err != nil {
		return Order{}, wrap(err, "reserve stock")
	}
	if ct.RowsAffected() == 0 {
		var available int
		err := tx.QueryRow(ctx, `SELECT available FROM products WHERE id=$1`, o.ProductID).Scan(&available)
		if err != nil {
			return Order{}, wrap(err, "product "+o.ProductID)
		}
		return Order{}, fmt.Errorf("%w: only %d items left", ErrInsufficientStock, available)
	}

	o.ID = uuid.NewString()
	o.Status = StatusPending
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, product_id, customer_name, phone, address, payment_method, quantity, screenshot_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		o.ID, o.ProductID, o.CustomerName, o.Phone, o.Address, o.PaymentMethod, o.Quantity, o.ScreenshotURL, o.Status,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, wrap(err, "insert order")
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, wrap(err, "commit create order")
	}
	return o, nil
}

func (s *PGStore) ListOrders(ctx context.Context) ([]OrderView, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT o.id, o.product_id, o.customer_name, o.phone, o.address, o.payment_method,
		       o.quantity, o.screenshot_url, o.status, o.created_at, o.updated_at,
		       p.title, p.price_cents
		FROM orders o
		LEFT JOIN products p ON p.id = o.product_id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	defer rows.Close()

	var out []OrderView
	for rows.Next() {
		var v OrderView
		var title *string
		var price *int
		if err := rows.Scan(&v.ID, &v.ProductID, &v.CustomerName, &v.Phone, &v.Address, &v.PaymentMethod,
			&v.Quantity, &v.ScreenshotURL, &v.Status, &v.CreatedAt, &v.UpdatedAt,
			&title, &price); err != nil {
			return nil, wrap(err, "scan order")
		}
		v.Product = ProductRef{ID: v.ProductID, Deleted: true}
		if title != nil {
			v.Product = ProductRef{ID: v.ProductID, Title: *title, PriceCents: *price}
		}
		out = append(out, v)
	}
	return out, wrap(rows.Err(), "list orders")
}

func (s *PGStore) ShipOrder(ctx context.Context, id string) error {
	ct, err := s.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return wrap(err, "ship order")
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s", ErrNotFound, id)
	}
	return nil
}

func (s *PGStore) MarkReturned(ctx context.Context, id string) (Order, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, wrap(err, "begin return")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, StatusReturned) {
		return Order{}, fmt.Errorf("%w: order is already %s", ErrInvalidState, o.Status)
	}

	// Zero rows here means the product was deleted; the order still
	// transitions, there is just nothing left to quarantine.
	if _, err := tx.Exec(ctx, `
		UPDATE products SET quarantined = quarantined + $2, updated_at = now()
		WHERE id=$1`, o.ProductID, o.Quantity); err != nil {
		return Order{}, wrap(err, "quarantine stock")
	}

	o.Status = StatusReturned
	if err := setOrderStatus(ctx, tx, &o); err != nil {
		return Order{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, wrap(err, "commit return")
	}
	return o, nil
}

func (s *PGStore) RestockReturned(ctx context.Context, id string) (RestockResult, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return RestockResult{}, wrap(err, "begin restock")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := lockOrder(ctx, tx, id)
	if err != nil {
		return RestockResult{}, err
	}
	if o.Status != StatusReturned {
		return RestockResult{}, fmt.Errorf("%w: order must be %s before restocking, is %s", ErrInvalidState, StatusReturned, o.Status)
	}

	var quarantined int
	err = tx.QueryRow(ctx, `SELECT quarantined FROM products WHERE id=$1 FOR UPDATE`, o.ProductID).Scan(&quarantined)
	if err != nil {
		return RestockResult{}, wrap(err, "product "+o.ProductID+" for order "+id)
	}
	ct, err := tx.Exec(ctx, `
		UPDATE products SET quarantined = quarantined - $2, available = available + $2, updated_at = now()
		WHERE id=$1 AND quarantined >= $2`, o.ProductID, o.Quantity)
	if err != nil {
		return RestockResult{}, wrap(err, "release stock")
	}
	if ct.RowsAffected() == 0 {
		return RestockResult{}, fmt.Errorf("%w: only %d units quarantined, need %d", ErrInvalidState, quarantined, o.Quantity)
	}

	o.Status = StatusRestocked
	if err := setOrderStatus(ctx, tx, &o); err != nil {
		return RestockResult{}, err
	}

	// Claim the oldest unnotified waiter inside the same transaction so a
	// concurrent restock cannot pick the same entry.
	var w WaitlistEntry
	err = tx.QueryRow(ctx, `
		SELECT id, product_id, customer_name, customer_phone, notified, created_at
		FROM waitlist WHERE product_id=$1 AND notified=false
		ORDER BY created_at ASC LIMIT 1 FOR UPDATE`, o.ProductID,
	).Scan(&w.ID, &w.ProductID, &w.CustomerName, &w.CustomerPhone, &w.Notified, &w.CreatedAt)
	res := RestockResult{Order: o}
	switch {
	case err == nil:
		if _, err := tx.Exec(ctx, `UPDATE waitlist SET notified=true WHERE id=$1`, w.ID); err != nil {
			return RestockResult{}, wrap(err, "mark waiter notified")
		}
		w.Notified = true
		res.Waiter = &w
	case errors.Is(err, pgx.ErrNoRows):
		// nobody waiting
	default:
		return RestockResult{}, wrap(err, "find next waiter")
	}

	if err := tx.Commit(ctx); err != nil {
		return RestockResult{}, wrap(err, "commit restock")
	}
	return res, nil
}

func (s *PGStore) JoinWaitlist(ctx context.Context, e WaitlistEntry) (WaitlistEntry, error) {
	e.ID = uuid.NewString()
	e.Notified = false
	err := s.DB.QueryRow(ctx, `
		INSERT INTO waitlist(id, product_id, customer_name, customer_phone, notified)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at`,
		e.ID, e.ProductID, e.CustomerName, e.CustomerPhone,
	).Scan(&e.CreatedAt)
	if err != nil {
		return WaitlistEntry{}, wrap(err, "join waitlist")
	}
	return e, nil
}

func (s *PGStore) NextWaiter(ctx context.Context, productID string) (*WaitlistEntry, error) {
	var w WaitlistEntry
	err := s.DB.QueryRow(ctx, `
		SELECT id, product_id, customer_name, customer_phone, notified, created_at
		FROM waitlist WHERE product_id=$1 AND notified=false
		ORDER BY created_at ASC LIMIT 1`, productID,
	).Scan(&w.ID, &w.ProductID, &w.CustomerName, &w.CustomerPhone, &w.Notified, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err, "find next waiter")
	}
	return &w, nil
}

func (s *PGStore) MarkNotified(ctx context.Context, entryID string) error {
	_, err := s.DB.Exec(ctx, `UPDATE waitlist SET notified=true WHERE id=$1`, entryID)
	return wrap(err, "mark notified")
}

func lockOrder(ctx context.Context, tx pgx.Tx, id string) (Order, error) {
	var o Order
	err := tx.QueryRow(ctx, `
		SELECT id, product_id, customer_name, phone, address, payment_method,
		       quantity, screenshot_url, status, created_at, updated_at
		FROM orders WHERE id=$1 FOR UPDATE`, id,
	).Scan(&o.ID, &o.ProductID, &o.CustomerName, &o.Phone, &o.Address, &o.PaymentMethod,
		&o.Quantity, &o.ScreenshotURL, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, wrap(err, "order "+id)
	}
	return o, nil
}

func setOrderStatus(ctx context.Context, tx pgx.Tx, o *Order) error {
	return wrap(tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, updated_at=now() WHERE id=$1
		RETURNING updated_at`, o.ID, o.Status,
	).Scan(&o.UpdatedAt), "update order status")
}
