package returns

import (
	"context"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-shop-inventory.git/internal/kafka"
	"github.com/ariefcatur/go-shop-inventory.git/internal/redisx"
	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher is satisfied by *kafka.Producer; tests use a recording fake.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service orchestrates the return/restock flow. The store transaction owns
// consistency; cache invalidation and event publishing run after commit
// and are best-effort, so Redis and the producers may be nil (memory
// backend mode, tests).
type Service struct {
	Store     shop.Store
	Redis     *redis.Client
	Lifecycle Publisher // shop.order.lifecycle
	Notify    Publisher // shop.waitlist.notify
	Log       *zap.Logger
	Name      string // envelope producer field
}

// RestockOutcome carries the operator-facing message and, when a waiter
// was claimed, the entry the caller should get notified.
type RestockOutcome struct {
	Message string              `json:"message"`
	Waiter  *shop.WaitlistEntry `json:"waiter,omitempty"`
}

// ReturnOrder transitions PENDING -> RETURNED and quarantines the order's
// quantity.
func (s *Service) ReturnOrder(ctx context.Context, orderID, traceID string) (shop.Order, error) {
	o, err := s.Store.MarkReturned(ctx, orderID)
	if err != nil {
		return shop.Order{}, err
	}

	s.dropProductCache(ctx)
	s.publish(s.Lifecycle, shop.EventOrderReturned, shop.PartitionKey(o.ID), traceID, o.ID,
		shop.OrderReturnedPayload{OrderID: o.ID, ProductID: o.ProductID, Quantity: o.Quantity})
	s.Log.Info("order returned",
		zap.String("order_id", o.ID), zap.String("product_id", o.ProductID), zap.Int("qty", o.Quantity))
	return o, nil
}

// RestockOrder runs the inspect-and-restock transaction and, when a
// waitlist entry was claimed, emits the notify event for the messaging
// worker.
func (s *Service) RestockOrder(ctx context.Context, orderID, traceID string) (RestockOutcome, error) {
	res, err := s.Store.RestockReturned(ctx, orderID)
	if err != nil {
		return RestockOutcome{}, err
	}
	o := res.Order

	s.dropProductCache(ctx)
	s.publish(s.Lifecycle, shop.EventOrderRestocked, shop.PartitionKey(o.ID), traceID, o.ID,
		shop.OrderRestockedPayload{OrderID: o.ID, ProductID: o.ProductID, Quantity: o.Quantity})

	out := RestockOutcome{Message: "Success! Item restocked.", Waiter: res.Waiter}
	if w := res.Waiter; w != nil {
		out.Message = fmt.Sprintf("Stock updated! ALERT: Customer %s (%s) is waiting for this!",
			w.CustomerName, w.CustomerPhone)

		title := ""
		if p, err := s.Store.GetProduct(ctx, o.ProductID); err == nil {
			title = p.Title
		}
		s.publish(s.Notify, shop.EventWaitlistNotify, shop.PartitionKey(o.ProductID), traceID, o.ID,
			shop.WaitlistNotifyPayload{
				EntryID:       w.ID,
				ProductID:     w.ProductID,
				ProductTitle:  title,
				CustomerName:  w.CustomerName,
				CustomerPhone: w.CustomerPhone,
			})
	}

	s.Log.Info("order restocked",
		zap.String("order_id", o.ID), zap.String("product_id", o.ProductID),
		zap.Int("qty", o.Quantity), zap.Bool("waiter", res.Waiter != nil))
	return out, nil
}

func (s *Service) dropProductCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	_ = s.Redis.Del(ctx, redisx.KeyProductList).Err()
}

func (s *Service) publish(p Publisher, eventType string, key []byte, traceID, correlationID string, payload any) {
	if p == nil {
		return
	}
	ev := shop.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	p.Publish(key, kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
