package httpx

import (
	"errors"
	"testing"

	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
)

func validOrder() shop.Order {
	return shop.Order{
		ProductID:     "p1",
		CustomerName:  "Siti Rahma",
		Phone:         "03123456789",
		Address:       "Jl. Kenanga No. 12, Jakarta",
		PaymentMethod: shop.PaymentCOD,
		Quantity:      1,
	}
}

func TestValidateOrderInput(t *testing.T) {
	if err := validateOrderInput(validOrder()); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*shop.Order)
	}{
		{"missing product", func(o *shop.Order) { o.ProductID = "" }},
		{"short name", func(o *shop.Order) { o.CustomerName = "ab" }},
		{"foreign phone", func(o *shop.Order) { o.Phone = "+14155551234" }},
		{"phone wrong prefix", func(o *shop.Order) { o.Phone = "04123456789" }},
		{"phone too short", func(o *shop.Order) { o.Phone = "031234567" }},
		{"short address", func(o *shop.Order) { o.Address = "Jl. Short" }},
		{"http link", func(o *shop.Order) { o.Address = "send to http://evil.test please" }},
		{"www link", func(o *shop.Order) { o.Address = "deliver to www.evil.test thanks" }},
		{"bad payment", func(o *shop.Order) { o.PaymentMethod = "BARTER" }},
		{"zero qty", func(o *shop.Order) { o.Quantity = 0 }},
	}
	for _, c := range cases {
		o := validOrder()
		c.mutate(&o)
		if err := validateOrderInput(o); !errors.Is(err, shop.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
}

func TestValidateProductInput(t *testing.T) {
	if err := validateProductInput("Widget", 100, 0); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}
	if err := validateProductInput("ab", 100, 0); !errors.Is(err, shop.ErrValidation) {
		t.Errorf("short title: got %v", err)
	}
	if err := validateProductInput("Widget", 0, 0); !errors.Is(err, shop.ErrValidation) {
		t.Errorf("zero price: got %v", err)
	}
	if err := validateProductInput("Widget", 100, -1); !errors.Is(err, shop.ErrValidation) {
		t.Errorf("negative stock: got %v", err)
	}
}
