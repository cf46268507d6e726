package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/repair-shop-service/internal/api/http"
	"github.com/spec-kit/repair-shop-service/internal/api/http/handlers"
	"github.com/spec-kit/repair-shop-service/internal/auth"
	"github.com/spec-kit/repair-shop-service/internal/config"
	"github.com/spec-kit/repair-shop-service/internal/events"
	"github.com/spec-kit/repair-shop-service/internal/observability"
	"github.com/spec-kit/repair-shop-service/internal/persistence"
	"github.com/spec-kit/repair-shop-service/internal/repository"
	"github.com/spec-kit/repair-shop-service/internal/service"
	"github.com/spec-kit/repair-shop-service/internal/worker"
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
	accountRepo := repository.NewAccountRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	employeeRepo := repository.NewEmployeeRepository(pool)

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcherWithLogger(logger)
	dispatcher.Subscribe(events.EventOrderStatusChanged, func(_ context.Context, event events.Event) error {
		if payload, ok := event.Payload.(events.OrderStatusChangedPayload); ok {
			metrics.RecordTransition(string(payload.OldStatus), string(payload.NewStatus))
		}
		return nil
	})

	workloadService := service.NewWorkloadService(employeeRepo, redis, cfg.Workload.CacheTTL(), logger)
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		OrderRepo:    orderRepo,
		EmployeeRepo: employeeRepo,
		Tracker:      workloadService,
		Dispatcher:   dispatcher,
	})
	accountService := service.NewAccountService(*cfg, accountRepo)
	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		Lifecycle: lifecycleService,
		Workload:  workloadService,
		Accounts:  accountService,
		OrderRepo: orderRepo,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(accountService.TokenManager(), accountRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Orders:         handlers.NewOrdersHandler(workflowService),
		Admin:          handlers.NewAdminHandler(workflowService),
		Employee:       handlers.NewEmployeeHandler(workflowService),
		AuthMiddleware: authMiddleware,
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
