package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/pigeonhq/pigeon-backend/api/routes"
	cartsvc "github.com/pigeonhq/pigeon-backend/internal/cart"
	"github.com/pigeonhq/pigeon-backend/internal/cartstore"
	product "github.com/pigeonhq/pigeon-backend/internal/products"
	"github.com/pigeonhq/pigeon-backend/internal/quote"
	"github.com/pigeonhq/pigeon-backend/pkg/config"
	"github.com/pigeonhq/pigeon-backend/pkg/db"
	"github.com/pigeonhq/pigeon-backend/pkg/logger"
	"github.com/pigeonhq/pigeon-backend/pkg/metrics"
	"github.com/pigeonhq/pigeon-backend/pkg/migrate"
	"github.com/pigeonhq/pigeon-backend/pkg/money"
	redispkg "github.com/pigeonhq/pigeon-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redispkg.Client
	var snapshotStore cartstore.Store
	var redisPinger redispkg.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = redispkg.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		snapshotStore, err = cartstore.NewRedisStore(redisClient, cfg.Cart.SnapshotTTL)
		if err != nil {
			logg.Error(context.Background(), "failed to create snapshot store", err)
			os.Exit(1)
		}
		redisPinger = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, using in-memory snapshot store")
		snapshotStore = cartstore.NewMemoryStore()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	quoteMetrics := metrics.NewQuoteMetrics(registry)

	productService, err := product.NewService(product.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	calculator, err := money.NewCalculator(cfg.Currency.Normalized())
	if err != nil {
		logg.Error(context.Background(), "failed to create calculator", err)
		os.Exit(1)
	}

	quoteEngine, err := quote.NewEngine(productService, calculator, logg, quoteMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create quote engine", err)
		os.Exit(1)
	}

	userCartService, err := cartsvc.NewService(cartsvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"currency": cfg.Currency.Normalized(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisPinger,
			registry,
			productService,
			quoteEngine,
			snapshotStore,
			userCartService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
