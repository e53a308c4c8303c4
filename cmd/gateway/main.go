package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/lumastream/mediagate/cmd/gateway/container"
	"github.com/lumastream/mediagate/cmd/gateway/routes"
	"github.com/lumastream/mediagate/common/bootstrap"
	"github.com/lumastream/mediagate/common/middleware"
	"github.com/lumastream/mediagate/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, store, audit, telemetry)
	components, err := bootstrap.Setup(ctx, "mediagate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap mediagate: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, components)
	setupHealthCheck(e, components)
	routes.RegisterMediaRoutes(e, serviceContainer)

	// Start with graceful shutdown; streams in flight get time to drain
	srv := server.New("mediagate", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, components *bootstrap.Components) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestID())
	e.Use(middleware.AccessLog(components.Logger))
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]string{
				"status":  "degraded",
				"service": "mediagate",
			})
		}
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"service": "mediagate",
		})
	})
}
