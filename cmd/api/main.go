package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avivshm/glowbook/internal/api/router"
	"github.com/avivshm/glowbook/internal/app/bootstrap"
	"github.com/avivshm/glowbook/internal/availability"
	"github.com/avivshm/glowbook/internal/bookings"
	"github.com/avivshm/glowbook/internal/catalog"
	appconfig "github.com/avivshm/glowbook/internal/config"
	"github.com/avivshm/glowbook/internal/customers"
	"github.com/avivshm/glowbook/internal/highlevel"
	"github.com/avivshm/glowbook/internal/locks"
	"github.com/avivshm/glowbook/internal/notify"
	"github.com/avivshm/glowbook/internal/observability/metrics"
	"github.com/avivshm/glowbook/internal/store"
	"github.com/avivshm/glowbook/internal/tenants"
	"github.com/avivshm/glowbook/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting glowbook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient == nil {
		logger.Error("redis is required", "addr", cfg.RedisAddr)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.BookingTimezone)
	if err != nil {
		logger.Error("invalid booking timezone", "timezone", cfg.BookingTimezone, "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	// Stores share one key space, namespaced per tenant.
	st := store.New(redisClient)
	keyed := locks.NewKeyed()
	tenantStore := tenants.NewStore(st, keyed)
	windowStore := availability.NewWindowStore(st, keyed)
	serviceStore := catalog.NewStore(st, keyed)
	profileStore := customers.NewStore(st, keyed)
	bookingStore := bookings.NewStore(st, keyed)

	hlClient := highlevel.NewClient(cfg.HighLevelBaseURL, cfg.HighLevelTimeout, logger)

	emailSender := bootstrap.BuildEmailSender(ctx, cfg, logger)
	notifier := notify.NewService(emailSender, logger)

	resolver := availability.NewResolver(tenantStore, windowStore, hlClient, loc, bookingMetrics, logger)
	upserter := customers.NewUpserter(tenantStore, profileStore, hlClient, logger)
	committer := bookings.NewCommitter(tenantStore, profileStore, serviceStore, hlClient,
		bookingStore, keyed, loc, notifier, bookingMetrics, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		TenantsHandler:      tenants.NewHandler(tenantStore, logger),
		AvailabilityHandler: availability.NewHandler(windowStore, resolver, logger),
		CatalogHandler:      catalog.NewHandler(serviceStore, logger),
		CustomersHandler:    customers.NewHandler(upserter, logger),
		BookingsHandler:     bookings.NewHandler(committer, bookingStore, logger),
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		PublicRateLimit:     cfg.PublicRateLimit,
		PublicRateBurst:     cfg.PublicRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	_ = redisClient.Close()
	logger.Info("server stopped")
}
