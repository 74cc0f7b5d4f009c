package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	kafkax "github.com/ariefcatur/go-shop-inventory.git/internal/kafka"
	"github.com/ariefcatur/go-shop-inventory.git/internal/metrics"
	"github.com/ariefcatur/go-shop-inventory.git/internal/redisx"
	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is satisfied by *kafka.Producer; tests use a recording fake.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrdersHandler struct {
	Store    shop.Store
	Redis    *redis.Client // optional: idempotency + cache
	Producer Publisher     // optional: shop.order.lifecycle
	Metrics  *metrics.Registry
	Uploads  *Uploads
	Service  string
}

type CreateOrderReq struct {
	ProductID     string `json:"product_id"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
	Quantity      int    `json:"quantity"`
	ScreenshotURL string `json:"screenshot_url"`
	ExternalID    string `json:"external_id"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/api/orders", h.createOrder)
	r.Get("/api/orders", h.listOrders)
	r.Delete("/api/orders/{id}", h.shipOrder)
}

// parseCreate accepts the storefront's multipart form (fields + optional
// screenshot file) or plain JSON.
func (h *OrdersHandler) parseCreate(r *http.Request) (shop.Order, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxScreenshotBytes + 1<<20); err != nil {
			return shop.Order{}, "", fmt.Errorf("%w: invalid form: %v", shop.ErrValidation, err)
		}
		qty, _ := strconv.Atoi(r.FormValue("quantity"))
		o := shop.Order{
			ProductID:     r.FormValue("product_id"),
			CustomerName:  r.FormValue("customer_name"),
			Phone:         r.FormValue("phone"),
			Address:       r.FormValue("address"),
			PaymentMethod: shop.PaymentMethod(r.FormValue("payment_method")),
			Quantity:      qty,
		}
		if r.FormValue("screenshot_url") == shop.ScreenshotVerifiedByScan {
			o.ScreenshotURL = shop.ScreenshotVerifiedByScan
		} else {
			url, err := h.Uploads.SaveScreenshot(r)
			if err != nil {
				return shop.Order{}, "", err
			}
			o.ScreenshotURL = url
		}
		return o, r.FormValue("external_id"), nil
	}

	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return shop.Order{}, "", fmt.Errorf("%w: invalid json", shop.ErrValidation)
	}
	return shop.Order{
		ProductID:     req.ProductID,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		PaymentMethod: shop.PaymentMethod(req.PaymentMethod),
		Quantity:      req.Quantity,
		ScreenshotURL: req.ScreenshotURL,
	}, req.ExternalID, nil
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	o, externalID, err := h.parseCreate(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = shop.PaymentCOD
	}
	if err := validateOrderInput(o); err != nil {
		writeErr(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Fast-path idempotency via Redis; the store stays the truth.
	idemKey := ""
	if externalID != "" && h.Redis != nil {
		idemKey = fmt.Sprintf(redisx.KeyIdemOrderCreate, externalID)
		if id, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
			writeJSON(w, http.StatusOK, map[string]any{"order_id": id, "idempotent": true})
			return
		}
	}

	created, err := h.Store.CreateOrder(ctx, o)
	if err != nil {
		if errors.Is(err, shop.ErrInsufficientStock) {
			h.Metrics.OrdersRejected.Inc()
		}
		writeErr(w, err)
		return
	}
	h.Metrics.OrdersCreated.Inc()

	if idemKey != "" {
		_ = h.Redis.Set(ctx, idemKey, created.ID, redisx.TTLIdempotency).Err()
	}
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, redisx.KeyProductList).Err()
	}

	h.publishCreated(created, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, created)
}

func (h *OrdersHandler) publishCreated(o shop.Order, traceID string) {
	if h.Producer == nil {
		return
	}
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     shop.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(shop.OrderCreatedPayload{
			OrderID:       o.ID,
			ProductID:     o.ProductID,
			Quantity:      o.Quantity,
			PaymentMethod: string(o.PaymentMethod),
		}),
	}
	h.Producer.Publish(shop.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(shop.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Store.ListOrders(ctx)
	if err != nil {
		writeErr(w, err)
		return
	}
	if orders == nil {
		orders = []shop.OrderView{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) shipOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.ShipOrder(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	h.Metrics.OrdersShipped.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "order shipped and archived"})
}
