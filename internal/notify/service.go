package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/ariefcatur/go-shop-inventory.git/internal/kafka"
	"github.com/ariefcatur/go-shop-inventory.git/internal/redisx"
	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Service consumes waitlist.notify events and hands them to the customer
// messaging gateway. The restock transaction already marked the entry
// notified; this side only delivers.
type Service struct {
	Redis *redis.Client
	Log   *zap.Logger
}

// HandleWaitlistNotify is wired as the consumer handler.
func (s *Service) HandleWaitlistNotify(ctx context.Context, m kafkago.Message) error {
	var env shop.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != shop.EventWaitlistNotify {
		return nil // ignore
	}

	// dedup via Redis on event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[shop.WaitlistNotifyPayload](env.Payload)
	if err != nil {
		return err
	}

	// Hand-off point for the WhatsApp/SMS gateway. Delivery itself is an
	// external collaborator; the send is recorded here.
	s.Log.Info("notify waiting customer",
		zap.String("entry_id", p.EntryID),
		zap.String("product_id", p.ProductID),
		zap.String("product", p.ProductTitle),
		zap.String("customer", p.CustomerName),
		zap.String("phone", p.CustomerPhone),
	)
	return nil
}
