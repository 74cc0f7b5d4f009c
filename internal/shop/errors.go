package shop

import "errors"

// Error kinds surfaced by the core. Callers match with errors.Is and map
// to their own presentation; the wrapped detail string is human-readable.
var (
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidState       = errors.New("invalid state")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
