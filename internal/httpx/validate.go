package httpx

import (
	"fmt"
	"regexp"

	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
)

// Validation rules carried over from the storefront: local mobile numbers
// only, and no links smuggled into the delivery address.
var (
	phoneRe = regexp.MustCompile(`^03\d{9}$`)
	linkRe  = regexp.MustCompile(`(?i)https?|www\.|\.com`)
)

func validateProductInput(title string, priceCents, initialStock int) error {
	if len(title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", shop.ErrValidation)
	}
	if priceCents < 1 {
		return fmt.Errorf("%w: price must be positive", shop.ErrValidation)
	}
	if initialStock < 0 {
		return fmt.Errorf("%w: initial stock cannot be negative", shop.ErrValidation)
	}
	return nil
}

func validateOrderInput(o shop.Order) error {
	if o.ProductID == "" {
		return fmt.Errorf("%w: product_id is required", shop.ErrValidation)
	}
	if len(o.CustomerName) < 3 {
		return fmt.Errorf("%w: customer name must be at least 3 characters", shop.ErrValidation)
	}
	if !phoneRe.MatchString(o.Phone) {
		return fmt.Errorf("%w: phone must be 11 digits and start with 03", shop.ErrValidation)
	}
	if len(o.Address) < 10 {
		return fmt.Errorf("%w: address must be at least 10 characters long", shop.ErrValidation)
	}
	if linkRe.MatchString(o.Address) {
		return fmt.Errorf("%w: links or URLs are not allowed in the address", shop.ErrValidation)
	}
	if o.PaymentMethod != shop.PaymentCOD && o.PaymentMethod != shop.PaymentOnline {
		return fmt.Errorf("%w: payment method must be COD or ONLINE", shop.ErrValidation)
	}
	if o.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", shop.ErrValidation)
	}
	return nil
}

func validateWaiterInput(name, phone string) error {
	if len(name) < 3 {
		return fmt.Errorf("%w: customer name must be at least 3 characters", shop.ErrValidation)
	}
	if !phoneRe.MatchString(phone) {
		return fmt.Errorf("%w: phone must be 11 digits and start with 03", shop.ErrValidation)
	}
	return nil
}
