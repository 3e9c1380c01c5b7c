package cmd

import (
	"context"
	"fmt"
	"time"

	"bolao/api"
	"bolao/cache"
	"bolao/config"
	"bolao/database"
	"bolao/events"
	"bolao/metrics"
	"bolao/repository"
	"bolao/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting bolao server...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	log.Info("Connecting to Redis...")
	sessions := cache.New(cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := sessions.Ping(ctx); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("Redis connection established successfully")

	m := metrics.Registry("bolao")

	eventBus := events.NewBus()
	registerMetricsHandlers(eventBus, m)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	userService := service.NewUserService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)
	poolService := service.NewPoolService(uowFactory)
	alertService := service.NewAlertService(uowFactory)
	configService := service.NewConfigService(uowFactory)
	assistant := service.NewAssistant(service.AssistantConfig{
		BaseURL: cfg.AssistantBaseURL,
		APIKey:  cfg.AssistantAPIKey,
		Model:   cfg.AssistantModel,
	}, configService, m)

	stopScan := api.StartPoolScanWorker(ctx, poolService, cfg.ScanInterval)

	server := api.New(api.Config{
		Addr:       cfg.ListenAddr,
		SessionTTL: cfg.SessionTTL,
	}, api.Dependencies{
		Users:     userService,
		Ledger:    ledgerService,
		Pools:     poolService,
		Alerts:    alertService,
		AppConfig: configService,
		Assistant: assistant,
		Sessions:  sessions,
		Metrics:   m,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Infof("Server is running in %s mode", cfg.Environment)

	select {
	case err := <-serverErr:
		stopScan()
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	stopScan()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}

	sessions.Close()

	log.Info("Closing database connection...")
	db.Close()

	log.Info("Shutdown completed")
	return nil
}

// Seed provisions the master admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Safe to run repeatedly.
func Seed(ctx context.Context) error {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, events.NewBus())
	userService := service.NewUserService(uowFactory)

	if err := userService.SeedAdmin(ctx, "", cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}

	log.WithField("email", cfg.AdminEmail).Info("Admin account ready")
	return nil
}

// registerMetricsHandlers wires domain events into Prometheus counters so
// services stay free of instrumentation concerns.
func registerMetricsHandlers(bus *events.Bus, m *metrics.Metrics) {
	bus.Subscribe(events.EventTypeBetPlaced, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.BetPlacedEvent); ok {
			m.BetsPlaced.WithLabelValues(ev.Modality).Inc()
		}
	})
	bus.Subscribe(events.EventTypePoolSettled, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.PoolSettledEvent); ok {
			m.PoolsSettled.Inc()
			m.PrizePaid.Add(ev.PrizePaid.InexactFloat64())
		}
	})
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.BalanceChangeEvent); ok {
			m.BalanceChanges.WithLabelValues(string(ev.TransactionType)).Inc()
		}
	})
	bus.Subscribe(events.EventTypeAlertRaised, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.AlertRaisedEvent); ok {
			m.AlertsRaised.WithLabelValues(string(ev.AlertType)).Inc()
		}
	})
}
