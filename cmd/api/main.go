package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/tidywork/studio-service/internal/api/http"
	"github.com/tidywork/studio-service/internal/api/http/handlers"
	"github.com/tidywork/studio-service/internal/auth"
	"github.com/tidywork/studio-service/internal/config"
	"github.com/tidywork/studio-service/internal/events"
	"github.com/tidywork/studio-service/internal/observability"
	"github.com/tidywork/studio-service/internal/payments"
	"github.com/tidywork/studio-service/internal/persistence"
	"github.com/tidywork/studio-service/internal/repository"
	"github.com/tidywork/studio-service/internal/service"
	"github.com/tidywork/studio-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:    userRepo,
		SessionRepo: sessionRepo,
	})
	catalogService := service.NewCatalogService(packageRepo, redis)
	settingsService := service.NewSettingsService(settingRepo, redis)
	cartService := service.NewCartService(service.CartDependencies{
		CartRepo: cartRepo,
		Catalog:  catalogService,
		Settings: settingsService,
		Features: cfg.Features,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:  orderRepo,
		CartRepo:   cartRepo,
		Provider:   payments.NewStripeProvider(cfg.Stripe.SecretKey),
		Settings:   settingsService,
		Dispatcher: dispatcher,
		Features:   cfg.Features,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	if err := catalogService.SeedDefaults(ctx); err != nil {
		logger.Warn("default catalog seed failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	sessionMiddleware := auth.NewSessionMiddleware(sessionRepo, userRepo)
	secureCookie := cfg.App.IsProduction()

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Pages:    handlers.NewPagesHandler(catalogService, cartService, orderService, settingsService),
		Auth:     handlers.NewAuthHandler(authService, secureCookie),
		Cart:     handlers.NewCartHandler(cartService),
		Checkout: handlers.NewCheckoutHandler(orderService, cfg.App.SiteURL),
		Admin:    handlers.NewAdminHandler(orderService, catalogService, settingsService),
		Webhook:  handlers.NewWebhookHandler(orderService, cfg.Stripe.WebhookSecret, logger),
		Session:  sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
