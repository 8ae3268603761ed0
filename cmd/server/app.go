package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/courier/internal/api"
	"github.com/phrazzld/courier/internal/config"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/generation"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/platform/blobstore"
	"github.com/phrazzld/courier/internal/platform/cloudbus"
	"github.com/phrazzld/courier/internal/platform/gemini"
	"github.com/phrazzld/courier/internal/platform/membus"
	"github.com/phrazzld/courier/internal/platform/postgres"
	"github.com/phrazzld/courier/internal/platform/redisstore"
	"github.com/phrazzld/courier/internal/service"
	"github.com/phrazzld/courier/internal/store"
	"github.com/phrazzld/courier/internal/worker"
)

// eventBus is a Dispatcher that owns background delivery and must be closed.
type eventBus interface {
	events.Dispatcher
	Close(ctx context.Context) error
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	bus        eventBus
	store      store.StateStore
	closeStore func() error

	ledger   *ledger.Ledger
	notifier *service.Notifier
	sweeper  *ledger.Sweeper

	generator generation.Generator
	handlers  api.Handlers
}

// appOption adjusts newApplication.
type appOption func(*application)

// withGenerator replaces the configured username generator.
func withGenerator(g generation.Generator) appOption {
	return func(app *application) {
		app.generator = g
	}
}

// newApplication creates a new application instance with all dependencies initialized.
// Resources opened before a failure are released before it returns.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...appOption) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		notifier: service.NewNotifier(),
	}
	for _, opt := range opts {
		opt(app)
	}

	if err := app.init(ctx); err != nil {
		app.cleanup(context.WithoutCancel(ctx))
		return nil, err
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

func (app *application) init(ctx context.Context) error {
	cfg, logger := app.config, app.logger

	var err error
	app.store, app.closeStore, err = openStore(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("failed to open state store: %w", err)
	}

	app.bus, err = openBus(cfg.Bus, logger)
	if err != nil {
		return fmt.Errorf("failed to open event bus: %w", err)
	}

	app.ledger = ledger.New(app.store, logger, ledger.WithObserver(app.notifier))

	app.sweeper, err = ledger.NewSweeper(app.ledger, cfg.Ledger.SweepSchedule, cfg.Ledger.MaxAge, logger)
	if err != nil {
		return fmt.Errorf("failed to create ledger sweeper: %w", err)
	}

	if app.generator == nil {
		app.generator, err = newGenerator(ctx, cfg.LLM, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize LLM generator: %w", err)
		}
	}

	if err := app.subscribe(); err != nil {
		return err
	}

	usernames, err := service.NewUsernameService(app.bus, app.ledger, logger)
	if err != nil {
		return fmt.Errorf("failed to create username service: %w", err)
	}
	greetings, err := service.NewGreetingService(app.bus, app.ledger, cfg.App, logger)
	if err != nil {
		return fmt.Errorf("failed to create greeting service: %w", err)
	}
	status, err := service.NewStatusService(app.store, app.ledger, logger)
	if err != nil {
		return fmt.Errorf("failed to create status service: %w", err)
	}

	app.handlers = api.Handlers{
		Usernames: api.NewUsernameHandler(usernames),
		Hello:     api.NewHelloHandler(greetings),
		Status:    api.NewStatusHandler(status),
		Watch:     api.NewWatchHandler(app.notifier, status, api.DefaultWatchTimeout),
	}

	app.sweeper.Start()
	return nil
}

// subscribe attaches the workers and the result listener to the bus.
func (app *application) subscribe() error {
	usernameWorker, err := worker.NewUsernameWorker(app.bus, app.generator, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create username worker: %w", err)
	}
	if err := usernameWorker.Subscribe(); err != nil {
		return fmt.Errorf("failed to subscribe username worker: %w", err)
	}

	greetingWorker, err := worker.NewGreetingWorker(app.store, app.ledger, app.logger, time.Now)
	if err != nil {
		return fmt.Errorf("failed to create greeting worker: %w", err)
	}
	if err := greetingWorker.Subscribe(app.bus); err != nil {
		return fmt.Errorf("failed to subscribe greeting worker: %w", err)
	}

	listener, err := service.NewResultListener(app.store, app.ledger, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create result listener: %w", err)
	}
	if err := listener.Subscribe(app.bus); err != nil {
		return fmt.Errorf("failed to subscribe result listener: %w", err)
	}

	return nil
}

// openStore returns the configured State Store and a function releasing it.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.StateStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case "memory":
		logger.Warn("using in-memory state store, records are lost on restart")
		return store.NewMemoryStore(), noop, nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewStateStore(db, logger), db.Close, nil

	case "redis":
		client := redisstore.NewClient(cfg.RedisAddr)
		st := redisstore.New(client, cfg.RedisPrefix, logger)
		if err := st.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return st, client.Close, nil

	case "blob":
		st, err := blobstore.Open(ctx, cfg.BucketURL, cfg.BucketPrefix, logger)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// openBus returns the configured event dispatcher.
func openBus(cfg config.BusConfig, logger *slog.Logger) (eventBus, error) {
	switch cfg.Driver {
	case "memory":
		return membus.New(membus.Config{
			QueueSize:   cfg.QueueSize,
			WorkerCount: cfg.WorkerCount,
		}, logger), nil

	case "cloud":
		bus, err := cloudbus.New(cloudbus.Options{
			TopicURL:        cfg.TopicURL,
			SubscriptionURL: cfg.SubscriptionURL,
		}, logger)
		if err != nil {
			return nil, err
		}
		return bus, nil

	default:
		return nil, fmt.Errorf("unknown bus driver %q", cfg.Driver)
	}
}

// newGenerator returns the Gemini generator, or one that fails every request
// when no API key is configured.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn("no Gemini API key configured, username generation requests will fail")
		return generation.Unconfigured{}, nil
	}

	g, err := gemini.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("LLM generator initialized successfully", "model", cfg.ModelName)
	return g, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup stops background work and releases resources. Deliveries still
// queued on the bus finish before the store closes.
func (app *application) cleanup(ctx context.Context) {
	if app.sweeper != nil {
		if err := app.sweeper.Stop(ctx); err != nil {
			app.logger.Error("Error stopping ledger sweeper", "error", err)
		}
	}

	if app.bus != nil {
		if err := app.bus.Close(ctx); err != nil {
			app.logger.Error("Error closing event bus", "error", err)
		}
	}

	if app.closeStore != nil {
		if err := app.closeStore(); err != nil {
			app.logger.Error("Error closing state store", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
