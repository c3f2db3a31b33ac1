package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	httptransport "github.com/lifeshare/lifeshare-api/internal/api/http"
	"github.com/lifeshare/lifeshare-api/internal/api/http/handlers"
	"github.com/lifeshare/lifeshare-api/internal/auth"
	"github.com/lifeshare/lifeshare-api/internal/config"
	"github.com/lifeshare/lifeshare-api/internal/domain"
	"github.com/lifeshare/lifeshare-api/internal/events"
	"github.com/lifeshare/lifeshare-api/internal/observability"
	"github.com/lifeshare/lifeshare-api/internal/persistence"
	"github.com/lifeshare/lifeshare-api/internal/repository"
	"github.com/lifeshare/lifeshare-api/internal/service"
	"github.com/lifeshare/lifeshare-api/internal/worker"
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

	store := openStore(ctx, cfg.Mongo, logger)
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = store.Close(closeCtx)
	}()

	if cfg.Mongo.EnsureIndexes {
		if err := persistence.EnsureIndexes(ctx, store, logger); err != nil {
			logger.Fatal("failed to ensure indexes", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := worker.NewQueuedDispatcher(events.NewInMemoryDispatcher(), logger, 0)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(ctx, notificationService, dispatcher)

	userRepo := repository.NewUserRepository(store)
	donationRepo := repository.NewDonationRequestRepository(store)
	blogRepo := repository.NewBlogRepository(store)

	authService := service.NewAuthService(cfg.Auth)
	userService := service.NewUserService(userRepo, dispatcher, logger)
	donationService := service.NewDonationService(donationRepo, dispatcher, logger)
	blogService := service.NewBlogService(blogRepo, dispatcher, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		UnescapePath: true,
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:      logger,
		Metrics:     metrics,
		Timeout:     cfg.App.RequestTimeout(),
		AllowOrigin: cfg.CORS.AllowOrigin,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:           handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store, redis),
		Tokens:           handlers.NewTokenHandler(authService),
		Users:            handlers.NewUsersHandler(userService),
		DonationRequests: handlers.NewDonationRequestsHandler(donationService),
		Blogs:            handlers.NewBlogsHandler(blogService),
		AuthMiddleware:   auth.NewAuthMiddleware(authService.TokenManager()),
		RoleGate:         auth.NewRoleGate(userRepo, httptransport.AccessPolicy(), domain.RoleAdmin),
		Metrics:          metrics,
		TokenLimit: limiter.Config{
			Max:        cfg.RateLimit.TokenMax,
			Expiration: cfg.RateLimit.Window(),
			LimitReached: func(c *fiber.Ctx) error {
				return fiber.NewError(fiber.StatusTooManyRequests, "too many token requests")
			},
		},
		LimiterStorage: redis.NewLimiterStorage(),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	cancel()
	dispatcher.Wait()
}

// openStore connects to MongoDB, or falls back to the in-process store when no
// URI is configured.
func openStore(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) persistence.Store {
	if cfg.URI == "" {
		logger.Warn("MONGODB_URI not provided; using in-memory store, data is not persisted")
		return persistence.NewMemoryStore()
	}
	mongo, err := persistence.NewMongo(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	return mongo
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
