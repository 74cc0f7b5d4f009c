package shop

import (
	"errors"
	"testing"
)

func TestReserve(t *testing.T) {
	s := Stock{Available: 5}

	s, err := Reserve(s, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Available != 2 {
		t.Fatalf("available = %d, want 2", s.Available)
	}

	// over-reserve fails and leaves counters unchanged
	out, err := Reserve(s, 3)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if out != s {
		t.Fatalf("counters changed on failed reserve: %+v", out)
	}

	// exact drain is fine
	s, err = Reserve(s, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Available != 0 {
		t.Fatalf("available = %d, want 0", s.Available)
	}
}

func TestReserve_InvalidQty(t *testing.T) {
	for _, qty := range []int{0, -1} {
		if _, err := Reserve(Stock{Available: 5}, qty); !errors.Is(err, ErrValidation) {
			t.Fatalf("qty=%d: expected ErrValidation, got %v", qty, err)
		}
	}
}

func TestRelease(t *testing.T) {
	s := Stock{Available: 1, Quarantined: 2}

	s, err := Release(s, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Available != 3 || s.Quarantined != 0 {
		t.Fatalf("unexpected stock after release: %+v", s)
	}

	// releasing more than quarantined fails, never clamps
	out, err := Release(s, 1)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if out != s {
		t.Fatalf("counters changed on failed release: %+v", out)
	}
}

func TestQuarantineAndRestock(t *testing.T) {
	s := Stock{}

	s, err := Quarantine(s, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err = Restock(s, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Available != 5 || s.Quarantined != 2 {
		t.Fatalf("unexpected stock: %+v", s)
	}
}

// Counters stay non-negative under any operation sequence; failed
// operations leave them untouched.
func TestLedger_NeverNegative(t *testing.T) {
	type op struct {
		f   func(Stock, int) (Stock, error)
		qty int
	}
	seq := []op{
		{Restock, 3}, {Reserve, 2}, {Reserve, 5}, {Quarantine, 1},
		{Release, 4}, {Release, 1}, {Reserve, 2}, {Reserve, 1},
	}
	s := Stock{}
	for i, o := range seq {
		next, err := o.f(s, o.qty)
		if err != nil {
			next = s // failed ops must not mutate
		}
		if next.Available < 0 || next.Quarantined < 0 {
			t.Fatalf("step %d: negative counter: %+v", i, next)
		}
		s = next
	}
}
