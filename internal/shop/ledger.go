package shop

import "fmt"

// Pure stock-counter transitions. Every mutation of a product's counters,
// in any store backend, goes through one of these (or its SQL equivalent)
// so that available and quarantined can never go negative.

// Reserve takes qty units out of available stock at order-creation time.
func Reserve(s Stock, qty int) (Stock, error) {
	if qty <= 0 {
		return s, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if s.Available < qty {
		return s, fmt.Errorf("%w: only %d items left", ErrInsufficientStock, s.Available)
	}
	s.Available -= qty
	return s, nil
}

// Quarantine moves qty physically-returned units into the quarantine
// counter. They are not sellable until released.
func Quarantine(s Stock, qty int) (Stock, error) {
	if qty <= 0 {
		return s, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	s.Quarantined += qty
	return s, nil
}

// Release moves qty inspected units from quarantine back to available.
// Fails when fewer than qty units are quarantined; it never clamps.
func Release(s Stock, qty int) (Stock, error) {
	if qty <= 0 {
		return s, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	if s.Quarantined < qty {
		return s, fmt.Errorf("%w: only %d units quarantined, need %d", ErrInvalidState, s.Quarantined, qty)
	}
	s.Quarantined -= qty
	s.Available += qty
	return s, nil
}

// Restock is a direct top-up of available stock, unrelated to returns.
func Restock(s Stock, qty int) (Stock, error) {
	if qty <= 0 {
		return s, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	s.Available += qty
	return s, nil
}
