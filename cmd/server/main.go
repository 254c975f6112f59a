package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shankar0203/QuickQueue/internal/events"
	"github.com/shankar0203/QuickQueue/internal/gateway"
	"github.com/shankar0203/QuickQueue/internal/handler"
	"github.com/shankar0203/QuickQueue/internal/metrics"
	"github.com/shankar0203/QuickQueue/internal/middleware"
	"github.com/shankar0203/QuickQueue/internal/repository"
	"github.com/shankar0203/QuickQueue/internal/service"
	"github.com/shankar0203/QuickQueue/pkg/config"
	"github.com/shankar0203/QuickQueue/pkg/database"
	"github.com/shankar0203/QuickQueue/pkg/kafka"
	"github.com/shankar0203/QuickQueue/pkg/logger"
	pkgredis "github.com/shankar0203/QuickQueue/pkg/redis"
	"github.com/shankar0203/QuickQueue/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       "info",
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	telCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telCfg); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Warn("Failed to shut down tracing", zap.Error(err))
		}
	}()

	if err := telemetry.InitMetrics(ctx, telCfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.ShutdownMetrics(shutdownCtx); err != nil {
			log.Warn("Failed to shut down metrics", zap.Error(err))
		}
	}()

	if err := metrics.Init(); err != nil {
		return fmt.Errorf("failed to initialize metric instruments: %w", err)
	}

	// Storage backends
	checkers := map[string]handler.HealthChecker{}

	var (
		inventory repository.InventoryLedger
		bookings  repository.BookingRepository
		orders    repository.OrderRepository
		tickets   repository.TicketRepository
		catalog   repository.EventRepository
	)

	if cfg.Booking.InventoryDriver == "memory" {
		inventory = repository.NewMemoryInventoryLedger()
		log.Info("Using in-memory inventory ledger")
	} else {
		redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		checkers["redis"] = redisClient

		ledger := repository.NewRedisInventoryLedger(redisClient)
		if err := ledger.LoadScripts(ctx); err != nil {
			return fmt.Errorf("failed to load inventory scripts: %w", err)
		}
		inventory = ledger
		log.Info("Using Redis inventory ledger", zap.String("addr", cfg.Redis.Addr()))
	}

	if cfg.Booking.StorageDriver == "memory" {
		bookings = repository.NewMemoryBookingRepository()
		orders = repository.NewMemoryOrderRepository()
		tickets = repository.NewMemoryTicketRepository()
		catalog = repository.NewMemoryEventRepository()
		log.Info("Using in-memory storage")
	} else {
		db, err := database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MaxIdleConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			EnableTracing:   cfg.OTel.Enabled,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		defer db.Close()
		checkers["postgres"] = db

		bookings = repository.NewPostgresBookingRepository(db)
		orders = repository.NewPostgresOrderRepository(db)
		tickets = repository.NewPostgresTicketRepository(db)
		catalog = repository.NewPostgresEventRepository(db)
		log.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host))
	}

	// Domain event publishing (best effort, disabled without brokers)
	var publisher *events.Publisher
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(ctx, &kafka.Config{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to Kafka: %w", err)
		}
		defer producer.Close()
		log.Info("Domain event publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}
	publisher = events.NewPublisher(producer)

	// Payment gateway
	gw, err := gateway.NewFromConfig(&cfg.Gateway)
	if err != nil {
		return fmt.Errorf("failed to create payment gateway: %w", err)
	}
	log.Info("Payment gateway ready", zap.String("provider", gw.Name()))

	// Services
	ticketService := service.NewTicketService(tickets, cfg.Ticket.QRSecret, publisher)
	eventService := service.NewEventService(catalog, inventory)
	bookingService := service.NewBookingService(&service.BookingServiceConfig{
		Inventory:     inventory,
		Bookings:      bookings,
		Orders:        orders,
		Catalog:       catalog,
		Gateway:       gw,
		Tickets:       ticketService,
		Publisher:     publisher,
		PaymentWindow: cfg.Booking.PaymentWindow,
		MaxPerBooking: cfg.Booking.MaxPerBooking,
	})

	if err := eventService.SeedExistingEvents(ctx); err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	sweeper := service.NewExpirySweeper(bookingService, cfg.Booking.SweepInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	// HTTP server
	router := setupRouter(cfg, log, bookingService, ticketService, eventService, checkers)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if producer != nil {
		if err := producer.Flush(shutdownCtx); err != nil {
			log.Warn("Failed to flush pending events", zap.Error(err))
		}
	}

	log.Info("Server stopped")
	return nil
}

func setupRouter(
	cfg *config.Config,
	log *zap.Logger,
	bookingService *service.BookingService,
	ticketService *service.TicketService,
	eventService *service.EventService,
	checkers map[string]handler.HealthChecker,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())
	router.Use(middleware.Authenticate(cfg.JWT.Secret))

	healthHandler := handler.NewHealthHandler(checkers)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(bookingService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	eventHandler := handler.NewEventHandler(eventService)

	api := router.Group("/api")
	{
		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)
		api.POST("/events", middleware.RequireRole("organizer", "admin"), eventHandler.Create)

		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/:id", bookingHandler.Get)

		api.POST("/payments/create-order", paymentHandler.CreateOrder)
		api.POST("/payments/verify", paymentHandler.Verify)

		api.GET("/tickets/:ticketNumber", ticketHandler.Get)
		api.POST("/checkin/:ticketNumber", middleware.RequireRole("organizer", "admin"), ticketHandler.CheckIn)
	}

	return router
}
