package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/eyadahmed25/customer-management/internal/api/http"
	"github.com/eyadahmed25/customer-management/internal/api/http/handlers"
	"github.com/eyadahmed25/customer-management/internal/clients"
	"github.com/eyadahmed25/customer-management/internal/config"
	"github.com/eyadahmed25/customer-management/internal/events"
	"github.com/eyadahmed25/customer-management/internal/observability"
	"github.com/eyadahmed25/customer-management/internal/persistence"
	"github.com/eyadahmed25/customer-management/internal/repository"
	"github.com/eyadahmed25/customer-management/internal/service"
	"github.com/eyadahmed25/customer-management/internal/worker"
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

	metrics := observability.NewMetrics()

	dispatcher := events.NewAsyncDispatcher(cfg.Notification.QueueSize, logger)
	defer dispatcher.Close()

	customerRepo := repository.NewCustomerRepository(pg.PoolHandle())
	phoneValidator := clients.NewTwilioValidator(cfg.Twilio, logger)
	emailSender := clients.NewSendGridSender(cfg.SendGrid, logger)

	customerService := service.NewCustomerService(service.CustomerDependencies{
		CustomerRepo:   customerRepo,
		PhoneValidator: phoneValidator,
		Dispatcher:     dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, emailSender, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg)
	customersHandler := handlers.NewCustomersHandler(customerService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Customers: customersHandler,
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
