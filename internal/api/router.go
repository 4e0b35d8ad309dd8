package api

import (
	"cleaning-match-service/internal/api/handlers"
	"cleaning-match-service/internal/ports"
	"cleaning-match-service/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	DB           handlers.Pinger
	Homes        ports.HomeRepository
	Providers    ports.ProviderRepository
	Registration *services.Registration
	Matcher      *services.Matcher
}

// NewRouter wires HTTP handlers with their dependencies.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps Deps, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(requestIDMiddleware())
	e.Use(loggingMiddleware(logger))
	e.Use(middleware.BodyLimit("1M"))

	health := &handlers.HealthHandler{DB: deps.DB}
	homes := &handlers.HomeHandler{
		Homes:        deps.Homes,
		Registration: deps.Registration,
		Matcher:      deps.Matcher,
	}
	providers := &handlers.ProviderHandler{
		Providers:    deps.Providers,
		Registration: deps.Registration,
	}

	e.GET("/health", health.Health)

	e.POST("/homes", homes.Create)
	e.GET("/homes/:id", homes.Get)
	e.GET("/homes/:id/nearby-providers", homes.NearbyProviders)

	e.POST("/providers", providers.Create)
	e.GET("/providers/:id", providers.Get)

	return e
}
