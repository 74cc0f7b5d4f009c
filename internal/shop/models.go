package shop

import "time"

// Stock holds the two per-product counters the ledger operates on.
// Available units can be sold; quarantined units came back through a
// return and are waiting for inspection.
type Stock struct {
	Available   int `json:"available"`
	Quarantined int `json:"quarantined"`
}

type Product struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PriceCents int       `json:"price_cents"`
	ImageURL   string    `json:"image_url,omitempty"`
	Stock      Stock     `json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "COD"
	PaymentOnline PaymentMethod = "ONLINE"
)

// ScreenshotVerifiedByScan is stored in ScreenshotURL when the client-side
// payment scan confirmed the transfer without an image upload.
const ScreenshotVerifiedByScan = "verified-by-scan"

type Order struct {
	ID            string        `json:"id"`
	ProductID     string        `json:"product_id"`
	CustomerName  string        `json:"customer_name"`
	Phone         string        `json:"phone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Quantity      int           `json:"quantity"`
	ScreenshotURL string        `json:"screenshot_url,omitempty"`
	Status        Status        `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ProductRef is the resolved-or-tombstone product reference attached to
// listed orders. Deleted=true means the product row is gone; Title and
// PriceCents are only meaningful when Deleted is false.
type ProductRef struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	PriceCents int    `json:"price_cents,omitempty"`
	Deleted    bool   `json:"deleted,omitempty"`
}

type OrderView struct {
	Order
	Product ProductRef `json:"product"`
}

type WaitlistEntry struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Notified      bool      `json:"notified"`
	CreatedAt     time.Time `json:"created_at"`
}
