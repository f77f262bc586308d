package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/facility-service/internal/api/dto"
	httptransport "github.com/spec-kit/facility-service/internal/api/http"
	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/persistence"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/service"
	"github.com/spec-kit/facility-service/internal/worker"
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

	var (
		userRepo  repository.UserRepository
		issueRepo repository.IssueRepository
	)
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		userRepo = repository.NewUserRepository(pg.PoolHandle())
		issueRepo = repository.NewIssueRepository(pg.PoolHandle())
		logger.Info("store backend selected", zap.String("backend", "postgres"))
	} else {
		userRepo = repository.NewMemoryUserRepository()
		issueRepo = repository.NewMemoryIssueRepository()
		logger.Info("store backend selected", zap.String("backend", "memory"))
	}

	if cfg.Seed.Enabled {
		opts := persistence.SeedOptions{DefaultPassword: cfg.Seed.DefaultPassword, BcryptCost: cfg.Auth.BcryptCost}
		if err := persistence.Seed(ctx, userRepo, issueRepo, opts, logger); err != nil {
			logger.Fatal("failed to seed fixtures", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	sessions := auth.NewMemorySessionStore()
	if redis.Enabled() {
		sessions = auth.NewRedisSessionStore(redis.Client)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(logger.Named("notifications"), cfg.Notification)
	notificationWorker := worker.NewNotificationWorker(notifier, logger, 256)
	notificationWorker.Start(ctx, dispatcher)
	defer notificationWorker.Stop()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:     userRepo,
		SessionStore: sessions,
	})
	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(service.UserDependencies{UserRepo: userRepo})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, sessions)

	metrics := observability.NewMetrics()
	validator := dto.NewValidator()

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             8 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, metrics, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService, validator),
		Issues:         handlers.NewIssuesHandler(issueService, validator),
		Users:          handlers.NewUsersHandler(userService, validator),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
