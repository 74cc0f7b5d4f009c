package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-shop-inventory.git/internal/config"
	"github.com/ariefcatur/go-shop-inventory.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-inventory.git/internal/kafka"
	"github.com/ariefcatur/go-shop-inventory.git/internal/metrics"
	"github.com/ariefcatur/go-shop-inventory.git/internal/postgres"
	"github.com/ariefcatur/go-shop-inventory.git/internal/redisx"
	"github.com/ariefcatur/go-shop-inventory.git/internal/returns"
	"github.com/ariefcatur/go-shop-inventory.git/internal/shop"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store backend: Postgres by default; memory runs the whole API
	// without external services (local dev, tests).
	var store shop.Store
	var rdb *redis.Client
	var lifecycle, notifyProd *kafkax.Producer

	if cfg.StoreBackend == "memory" {
		store = shop.NewMemStore()
		logger.Info("using in-memory store, redis/kafka disabled")
	} else {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		store = &shop.PGStore{DB: db}

		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()

		lifecycle = kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicOrderLifecycle, 1024, logger)
		lifecycle.Start(ctx)
		notifyProd = kafkax.NewProducer(cfg.KafkaBrokers, shop.TopicWaitlistNotify, 1024, logger)
		notifyProd.Start(ctx)
	}

	reg := metrics.NewRegistry()

	svc := &returns.Service{
		Store: store,
		Redis: rdb,
		Log:   logger,
		Name:  cfg.ServiceName,
	}

	router := httpx.NewRouter()
	router.Handle("/metrics", reg.Handler())
	httpx.ServeUploads(router, cfg.UploadDir)

	ph := &httpx.ProductsHandler{Store: store, Redis: rdb}
	oh := &httpx.OrdersHandler{
		Store:   store,
		Redis:   rdb,
		Metrics: reg,
		Uploads: &httpx.Uploads{Dir: cfg.UploadDir},
		Service: cfg.ServiceName,
	}
	rh := &httpx.ReturnsHandler{Svc: svc, Metrics: reg}

	// keep typed-nil producers out of the interface fields
	if lifecycle != nil {
		oh.Producer = lifecycle
		svc.Lifecycle = lifecycle
	}
	if notifyProd != nil {
		svc.Notify = notifyProd
	}

	ph.Register(router)
	oh.Register(router)
	rh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if lifecycle != nil {
		lifecycle.Close()
		notifyProd.Close()
		cancel() // stop producer loops
		lifecycle.WaitClosed()
		notifyProd.WaitClosed()
	}
}
