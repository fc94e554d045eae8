package app

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"calendario.app/api"
	"calendario.app/config"
	"calendario.app/database"
	"calendario.app/notification"
	"calendario.app/providers"
	"calendario.app/repository"
	"calendario.app/scheduler"
	"calendario.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	slog.Info("Loading configuration...")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	slog.Info("Configuration loaded successfully")
	return nil
}

func (app *Application) initializeDatabase() error {
	slog.Info("Initializing database...")

	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	slog.Info("Database initialized successfully")
	return nil
}

func (app *Application) initializeServices() error {
	slog.Info("Initializing services...")

	preferenceRepo := repository.NewPreferenceRepository(app.db)
	subscriptionRepo := repository.NewPushSubscriptionRepository(app.db)
	eventRepo := repository.NewEventRepository(app.db)

	eventService, err := app.createEventService(eventRepo)
	if err != nil {
		return fmt.Errorf("create event service: %w", err)
	}

	preferenceService := service.NewPreferenceService(preferenceRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo)

	pushService, gate := app.createNotificationPipeline(preferenceRepo, subscriptionRepo, eventRepo)

	app.server = api.NewServer(
		app.db,
		app.config,
		preferenceService,
		subscriptionService,
		eventService,
		pushService,
	)
	app.scheduler = scheduler.NewScheduler(app.config, gate, eventService)

	slog.Info("Services initialized successfully")
	return nil
}

// createEventService wires the external data providers behind the configured
// cache backend
func (app *Application) createEventService(eventRepo *repository.EventRepository) (*service.EventService, error) {
	cacheBackend, err := providers.NewCacheFromConfig(&app.config.Cache)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(app.config.Cache.TTLMinutes) * time.Minute

	astronomy := providers.NewCachedAstronomyProvider(
		providers.NewSunriseSunsetProvider(&app.config.Providers), cacheBackend, ttl)
	tides := providers.NewCachedTideProvider(
		providers.NewWorldTidesProvider(&app.config.Providers), cacheBackend, ttl)
	fixtures := providers.NewFootballAPIProvider(&app.config.Providers)

	return service.NewEventService(eventRepo, astronomy, tides, fixtures, app.config.Location), nil
}

// createNotificationPipeline assembles the push delivery path. When VAPID keys
// are absent it returns a nil service and gate: preference and event endpoints
// keep working, only delivery is disabled.
func (app *Application) createNotificationPipeline(
	preferenceRepo *repository.PreferenceRepository,
	subscriptionRepo *repository.PushSubscriptionRepository,
	eventRepo *repository.EventRepository,
) (service.PushServiceInterface, *notification.Gate) {
	if !app.config.Push.Configured() {
		slog.Warn("VAPID keys are not configured; push delivery is disabled")
		return nil, nil
	}

	pushProvider, err := providers.NewWebPushProvider(&app.config.Push)
	if err != nil {
		slog.Warn("Failed to create push provider; push delivery is disabled", "error", err)
		return nil, nil
	}

	pushService := service.NewPushService(pushProvider, subscriptionRepo)

	clock := notification.SystemClock()
	resolver := notification.NewResolver(preferenceRepo, subscriptionRepo, clock)
	fetcher := notification.NewFetcher(eventRepo, clock)
	gate := notification.NewGate(resolver, fetcher, pushService, clock, app.config.Scheduler.SendWindowMinutes)

	return pushService, gate
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("Starting application...")

	slog.Info("Starting scheduler...")
	app.scheduler.Start()

	slog.Info("Starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("Error closing database", "error", err)
		}
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
