package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-inventory.git/internal/metrics"
	"github.com/ariefcatur/go-shop-inventory.git/internal/returns"
	"github.com/go-chi/chi/v5"
)

type ReturnsHandler struct {
	Svc     *returns.Service
	Metrics *metrics.Registry
}

func (h *ReturnsHandler) Register(r *chi.Mux) {
	r.Put("/api/returns/{orderId}/return", h.markReturned)
	r.Put("/api/returns/{orderId}/restock", h.restock)
}

func (h *ReturnsHandler) markReturned(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.ReturnOrder(ctx, chi.URLParam(r, "orderId"), r.Header.Get("X-Request-Id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.Metrics.Returns.Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Order marked returned. Stock quarantined.",
		"order":   o,
	})
}

func (h *ReturnsHandler) restock(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Svc.RestockOrder(ctx, chi.URLParam(r, "orderId"), r.Header.Get("X-Request-Id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.Metrics.Restocks.Inc()
	if out.Waiter != nil {
		h.Metrics.WaitlistNotified.Inc()
	}
	writeJSON(w, http.StatusOK, out)
}
