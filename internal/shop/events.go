package shop

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderReturned  = "OrderReturned"
	EventOrderRestocked = "OrderRestocked"
	EventWaitlistNotify = "WaitlistNotify"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "shop-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload types per event ----

type OrderCreatedPayload struct {
	OrderID       string `json:"order_id"`
	ProductID     string `json:"product_id"`
	Quantity      int    `json:"qty"`
	PaymentMethod string `json:"payment_method"`
}

type OrderReturnedPayload struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"qty"` // units moved to quarantine
}

type OrderRestockedPayload struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"qty"` // units released back to available
}

type WaitlistNotifyPayload struct {
	EntryID       string `json:"entry_id"`
	ProductID     string `json:"product_id"`
	ProductTitle  string `json:"product_title"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}
