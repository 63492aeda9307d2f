package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/evcare/backend/internal/application/catalog"
	financeapp "github.com/evcare/backend/internal/application/finance"
	inventoryapp "github.com/evcare/backend/internal/application/inventory"
	"github.com/evcare/backend/internal/application/notification"
	servicingapp "github.com/evcare/backend/internal/application/servicing"
	"github.com/evcare/backend/internal/domain/shared"
	"github.com/evcare/backend/internal/infrastructure/auth"
	"github.com/evcare/backend/internal/infrastructure/cache"
	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/evcare/backend/internal/infrastructure/event"
	"github.com/evcare/backend/internal/infrastructure/logger"
	"github.com/evcare/backend/internal/infrastructure/persistence"
	"github.com/evcare/backend/internal/infrastructure/printing"
	"github.com/evcare/backend/internal/infrastructure/scheduler"
	"github.com/evcare/backend/internal/infrastructure/telemetry"
	"github.com/evcare/backend/internal/interfaces/http/handler"
	"github.com/evcare/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	// Bootstrap logger, replaced once the OTLP log bridge is known
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			bootLog.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	var extra []zapcore.Core
	if core := providers.ZapCore(); core != nil {
		extra = append(extra, core)
	}
	log, err := logger.New(logCfg, extra...)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EV service center backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	profiler.LinkSpans(providers)

	// Database, logging through zap and traced by otelgorm when enabled
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if cfg.Telemetry.MetricsEnabled {
		if err := telemetry.RegisterPoolMetrics(db.DB, providers.Meter()); err != nil {
			log.Warn("Failed to register pool metrics", zap.Error(err))
		}
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	partRepo := persistence.NewGormPartRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	offeringRepo := persistence.NewGormServiceOfferingRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	orderRepo := persistence.NewGormServiceOrderRepository(db.DB)
	partRequestRepo := persistence.NewGormPartRequestRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	partService := inventoryapp.NewPartService(partRepo, movementRepo, txScope.Inventory(), log)
	offeringService := catalogapp.NewOfferingService(offeringRepo)
	appointmentService := servicingapp.NewAppointmentService(appointmentRepo)
	orderService := servicingapp.NewOrderService(orderRepo, offeringRepo, txScope.Servicing(), log)
	partRequestService := servicingapp.NewPartRequestService(partRequestRepo, orderRepo, partRepo, txScope.Servicing(), log)
	invoiceService := financeapp.NewInvoiceService(orderRepo, invoiceRepo, txScope.Finance(), log,
		financeapp.WithTaxRate(cfg.Billing.TaxRate),
		financeapp.WithDueIn(cfg.Billing.InvoiceDueIn()),
		financeapp.WithNameResolver(catalogapp.NewNameResolver(offeringRepo, partRepo)),
	)

	// Event bus and subscribers
	eventBus := event.NewInMemoryEventBus(log)

	idempotencyStore, err := cache.NewIdempotencyStore(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	idempotency := shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}
	if idempotency.TTL <= 0 {
		idempotency = shared.DefaultIdempotencyConfig()
	}

	notificationHandler := event.NewIdempotentHandler("notification",
		notification.NewHandler(notification.NewLogNotifier(log), log),
		idempotencyStore, log, event.WithIdempotencyConfig(idempotency))
	stockAlertHandler := event.NewIdempotentHandler("stock-alert",
		inventoryapp.NewPartOutOfStockHandler(log).WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log)),
		idempotencyStore, log, event.WithIdempotencyConfig(idempotency))
	eventBus.Subscribe(notificationHandler)
	eventBus.Subscribe(stockAlertHandler)

	if cfg.Telemetry.MetricsEnabled {
		workflowMetrics, err := telemetry.NewWorkflowMetrics(providers.Meter())
		if err != nil {
			log.Fatal("Failed to create workflow metrics", zap.Error(err))
		}
		eventBus.Subscribe(workflowMetrics)
	}

	log.Info("Event handlers registered",
		zap.Strings("notification_events", notificationHandler.EventTypes()),
		zap.Strings("stock_alert_events", stockAlertHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	partService.SetEventPublisher(eventBus)
	appointmentService.SetEventPublisher(eventBus)
	orderService.SetEventPublisher(eventBus)
	partRequestService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)

	// Background jobs
	if cfg.Scheduler.Enabled {
		jobs := scheduler.NewScheduler(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, log.Named("scheduler"))
		reminder := scheduler.NewTask("invoice-overdue-reminder", func(ctx context.Context, now time.Time) error {
			_, err := invoiceService.RemindOverdue(ctx, now)
			return err
		})
		if err := jobs.Daily(reminder, cfg.Scheduler.OverdueReminderSchedule); err != nil {
			log.Fatal("Failed to schedule overdue reminders", zap.Error(err))
		}
		if err := jobs.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := jobs.Stop(ctx); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// Invoice documents
	paper, err := printing.ParsePaperSize(cfg.Printing.PaperSize)
	if err != nil {
		log.Fatal("Invalid printing.paper_size", zap.Error(err))
	}
	printerOpts := []printing.InvoicePrinterOption{
		printing.WithIssuer(cfg.Printing.Issuer),
		printing.WithPaperSize(paper),
	}
	if cfg.Printing.PDFEnabled {
		printerOpts = append(printerOpts, printing.WithRenderer(printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log.Named("chromedp"),
		})))
	}
	invoicePrinter, err := printing.NewInvoicePrinter(log, printerOpts...)
	if err != nil {
		log.Fatal("Failed to create invoice printer", zap.Error(err))
	}
	defer func() {
		_ = invoicePrinter.Close()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := router.NewEngine(router.EngineConfig{
		Logger:         log,
		HTTP:           cfg.HTTP,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: providers.Enabled(),
		Verifier:       auth.NewVerifier(cfg.JWT),
		Health:         handler.NewHealthHandler(sqlDB, version),
	},
		handler.NewPartHandler(partService),
		handler.NewOfferingHandler(offeringService),
		handler.NewAppointmentHandler(appointmentService),
		handler.NewServiceOrderHandler(orderService, invoiceService),
		handler.NewPartRequestHandler(partRequestService),
		handler.NewInvoiceHandler(invoiceService, invoicePrinter),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
