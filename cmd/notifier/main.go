package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ariefcatur/go-shop-inventory.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-inventory.git/internal/kafka"
	"github.com/ariefcatur/go-shop-inventory.git/internal/notify"
	"github.com/ariefcatur/go-shop-inventory.git/internal/redisx"
	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{Redis: rdb, Log: logger}

	group := getenv("NOTIFIER_GROUP", "waitlist-notifier")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "4")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, shop.TopicWaitlistNotify, workers, logger)

	go func() {
		logger.Info("notifier consumer started",
			zap.String("group", group), zap.String("topic", shop.TopicWaitlistNotify), zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleWaitlistNotify); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down consumer...")
	cancel()
}
