package redisx

import "time"

const (
	// Idempotency create order: idem:order:create:{external_id} -> order_id
	KeyIdemOrderCreate = "idem:order:create:%s"

	// Cached product listing (JSON array), dropped on any stock mutation.
	KeyProductList = "cache:products"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency  = 24 * time.Hour
	TTLProductCache = 30 * time.Second
	TTLDedup        = 48 * time.Hour
)
