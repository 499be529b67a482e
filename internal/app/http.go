package app

import (
	"context"

	"gorm.io/gorm"

	apphttp "github.com/yungbote/starcatalog-backend/internal/http"
	httpH "github.com/yungbote/starcatalog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/starcatalog-backend/internal/http/middleware"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Auth   *httpH.AuthHandler
	Star   *httpH.StarHandler
	Planet *httpH.PlanetHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(pingStore(db)),
		Auth:   httpH.NewAuthHandler(services.Auth),
		Star:   httpH.NewStarHandler(services.Catalog),
		Planet: httpH.NewPlanetHandler(services.Catalog),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		StarHandler:    handlers.Star,
		PlanetHandler:  handlers.Planet,
		HealthHandler:  handlers.Health,
	})
}

func pingStore(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
