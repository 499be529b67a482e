package app

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/starcatalog-backend/internal/data/db"
	apphttp "github.com/yungbote/starcatalog-backend/internal/http"
	"github.com/yungbote/starcatalog-backend/internal/observability"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Store    *db.Service
	DB       *gorm.DB
	Server   *apphttp.Server
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger for cfg.LogMode.
func NewLogger(cfg Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.JWTSecretDefaulted {
		log.Warn("JWT_SECRET not set; using development secret", "app_env", cfg.Env)
	}
	return log, nil
}

// OpenStore connects to the configured database and, when asked, brings the
// schema up to date.
func OpenStore(cfg Config, log *logger.Logger, migrate bool) (*db.Service, error) {
	store, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if migrate {
		if err := db.AutoMigrateAll(store.DB()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("store automigrate: %w", err)
		}
	}
	return store, nil
}

func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)

	store, err := OpenStore(cfg, log, cfg.AutoMigrate)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	theDB := store.DB()

	clients, err := wireClients(ctx, cfg, log)
	if err != nil {
		_ = store.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		Store:        store,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until Shutdown is called or the listener fails.
func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting server", "addr", a.Cfg.Addr(), "app_env", a.Cfg.Env)
	return a.Server.Run(a.Cfg.Addr())
}

// Shutdown drains in-flight requests, then releases clients, the store and
// the tracer provider.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	a.Clients.Close()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
