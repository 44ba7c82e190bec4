package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/svetline/svetline-backend/api/routes"
	"github.com/svetline/svetline-backend/internal/auth"
	"github.com/svetline/svetline-backend/internal/cart"
	"github.com/svetline/svetline-backend/internal/catalog"
	"github.com/svetline/svetline-backend/internal/checkout"
	"github.com/svetline/svetline-backend/internal/content"
	"github.com/svetline/svetline-backend/internal/payments"
	"github.com/svetline/svetline-backend/internal/webhooks"
	"github.com/svetline/svetline-backend/pkg/config"
	"github.com/svetline/svetline-backend/pkg/db"
	"github.com/svetline/svetline-backend/pkg/logger"
	"github.com/svetline/svetline-backend/pkg/metrics"
	"github.com/svetline/svetline-backend/pkg/migrate"
	"github.com/svetline/svetline-backend/pkg/redis"
)

const (
	shutdownGrace = 15 * time.Second
	cartIdleLimit = 48 * time.Hour
	cartPruneTick = time.Hour
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(content.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.NewRepository(dbClient.DB()), cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartStore := cart.NewStore()
	cartService, err := cart.NewService(cartStore, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	providerHTTP := &http.Client{Timeout: cfg.Checkout.ProviderTimeout}
	registryProviders := payments.NewRegistry(
		payments.NewTBankProvider(cfg.Providers.TBank, providerHTTP),
		payments.NewPlatronProvider(cfg.Providers.Platron, providerHTTP),
		payments.NewYooKassaProvider(cfg.Providers.YooKassa, providerHTTP),
		payments.NewSBPQRProvider(cfg.Providers.SBPQR, providerHTTP),
	)

	checkoutService, err := checkout.NewService(cartService, registryProviders, cfg.Checkout, paymentMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	paymentRepo := payments.NewRepository(dbClient.DB())
	webhookService, err := webhooks.NewService(
		paymentRepo,
		webhooks.NewRedisEventGuard(redisClient, cfg.Checkout),
		cfg.Providers,
		paymentMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go pruneCarts(runCtx, cartStore, logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Registry: registry,
			Auth:     authService,
			Catalog:  catalogService,
			Content:  contentService,
			Cart:     cartService,
			Checkout: checkoutService,
			Webhooks: webhookService,
			Payments: paymentRepo,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}

// pruneCarts drops session carts that have sat idle longer than the limit.
func pruneCarts(ctx context.Context, store *cart.Store, logg *logger.Logger) {
	ticker := time.NewTicker(cartPruneTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := store.Prune(cartIdleLimit); dropped > 0 {
				logg.Info(logg.WithField(ctx, "dropped", dropped), "cart.sessions_pruned")
			}
		}
	}
}
