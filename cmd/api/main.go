package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"

	"github.com/premiun-cakes/api/internal/domain"
	"github.com/premiun-cakes/api/internal/handlers"
	"github.com/premiun-cakes/api/internal/platform/config"
	platformfirestore "github.com/premiun-cakes/api/internal/platform/firestore"
	"github.com/premiun-cakes/api/internal/platform/jobs"
	"github.com/premiun-cakes/api/internal/platform/observability"
	repofirestore "github.com/premiun-cakes/api/internal/repositories/firestore"
	"github.com/premiun-cakes/api/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var providerOpts []platformfirestore.ProviderOption
	if cfg.Firestore.EmulatorHost != "" {
		providerOpts = append(providerOpts, platformfirestore.WithEmulatorHost(cfg.Firestore.EmulatorHost))
	}
	provider := platformfirestore.NewProvider(cfg.Firestore.ProjectID, providerOpts...)
	defer func() { _ = provider.Close() }()

	orderRepo := repofirestore.NewOrderRepository(provider, time.Now)

	catalog := domain.NewCatalog()
	feePolicy := cfg.Delivery.FeePolicy()

	metrics, err := observability.NewPipelineMetrics()
	if err != nil {
		return err
	}

	normalizer, err := services.NewNormalizer(catalog.Aliases())
	if err != nil {
		return err
	}
	validator, err := services.NewValidator(catalog)
	if err != nil {
		return err
	}
	pricing, err := services.NewPricingEngine(services.PricingEngineDeps{
		Catalog:   catalog,
		FeePolicy: feePolicy,
	})
	if err != nil {
		return err
	}
	codes, err := services.NewOrderCodeGenerator(services.OrderCodeGeneratorDeps{
		Store:       orderRepo,
		Prefix:      cfg.OrderCode.Prefix,
		Digits:      cfg.OrderCode.Digits,
		MaxAttempts: cfg.OrderCode.MaxAttempts,
		Fallbacks:   metrics.CodeFallbacks,
	})
	if err != nil {
		return err
	}
	renderer, err := services.NewMessageRenderer(catalog, cfg.Delivery.PickupAddress)
	if err != nil {
		return err
	}

	var events services.OrderEventPublisher
	if cfg.PubSub.Topic != "" && cfg.PubSub.ProjectID != "" {
		client, err := pubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		topic := client.Topic(cfg.PubSub.Topic)
		defer topic.Stop()
		events, err = jobs.NewPubSubOrderPublisher(topic)
		if err != nil {
			return err
		}
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Normalizer:     normalizer,
		Validator:      validator,
		Pricing:        pricing,
		Codes:          codes,
		Renderer:       renderer,
		Orders:         orderRepo,
		Events:         events,
		WhatsAppNumber: cfg.WhatsApp.Number,
		Logger:         observability.EventLogger(logger),
		Metrics:        metrics,
	})
	if err != nil {
		return err
	}

	orderHandler, err := handlers.NewOrderHandler(handlers.OrderHandlerDeps{
		Service:         orderService,
		OrdersPerMinute: cfg.RateLimits.OrdersPerMinute,
	})
	if err != nil {
		return err
	}
	catalogHandler, err := handlers.NewCatalogHandler(catalog, feePolicy)
	if err != nil {
		return err
	}
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		_, err := provider.Client(ctx)
		return err
	})

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.TraceMiddleware(),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			handlers.EnforceOrigin(cfg.Security.AllowedOrigins),
		),
		handlers.WithAllowedOrigins(cfg.Security.AllowedOrigins),
		handlers.WithHealthRoutes(healthHandler),
		handlers.WithCatalogRoutes(catalogHandler),
		handlers.WithOrderRoutes(orderHandler),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
