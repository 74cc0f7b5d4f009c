package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps core error kinds to HTTP statuses. The wrapped detail
// string goes out as-is; it is written for humans.
func writeErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, shop.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, shop.ErrInsufficientStock),
		errors.Is(err, shop.ErrInvalidState),
		errors.Is(err, shop.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, shop.ErrStorageUnavailable):
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
