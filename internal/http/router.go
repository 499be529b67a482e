package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/starcatalog-backend/internal/domain"
	httpH "github.com/yungbote/starcatalog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/starcatalog-backend/internal/http/middleware"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	StarHandler    *httpH.StarHandler
	PlanetHandler  *httpH.PlanetHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// Catalog reads (public)
	if cfg.StarHandler != nil {
		api.GET("/stars", cfg.StarHandler.ListStars)
		api.GET("/stars/:id", cfg.StarHandler.GetStar)
	}
	if cfg.PlanetHandler != nil {
		api.GET("/planets/:id/observations", cfg.PlanetHandler.ListObservations)
	}

	// Catalog writes (researcher only)
	if cfg.AuthMiddleware == nil {
		return r
	}
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireRole(types.RoleResearcher))
	{
		if cfg.StarHandler != nil {
			protected.POST("/stars", cfg.StarHandler.CreateStar)
			protected.PUT("/stars/:id", cfg.StarHandler.UpdateStar)
		}
		if cfg.PlanetHandler != nil {
			protected.POST("/planets", cfg.PlanetHandler.CreatePlanet)
			protected.PUT("/planets/:id", cfg.PlanetHandler.UpdatePlanet)
			protected.POST("/planets/:id/calculate", cfg.PlanetHandler.Calculate)
		}
	}

	return r
}
