package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fridaygt/fridaygt/cmd/fridaygt/container"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/handlers"
	"github.com/fridaygt/fridaygt/cmd/fridaygt/routes"
	"github.com/fridaygt/fridaygt/common/bootstrap"
	"github.com/fridaygt/fridaygt/common/logger"
	commonmw "github.com/fridaygt/fridaygt/common/middleware"
	"github.com/fridaygt/fridaygt/common/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bootstrap common components (DB, Redis, cache, limiter, telemetry)
	components, err := bootstrap.Setup(ctx, "fridaygt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap fridaygt: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("failed to initialize service container", "error", err)
		os.Exit(1)
	}

	e := setupEcho(components.Logger)
	setupMiddleware(e, components.Logger)
	setupHealthCheck(e, components)
	routes.Register(e, serviceContainer)

	srv := server.New("fridaygt", components.Config.Service.Port, e, components.Logger)
	if err := srv.Run(ctx); err != nil {
		components.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with error rendering and validation
func setupEcho(log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handlers.ErrorHandler(log)
	e.Validator = handlers.NewRequestValidator()
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, log *logger.Logger) {
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(commonmw.Metrics())
}

// setupHealthCheck registers the health and scrape endpoints
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := components.Health(ctx); err != nil {
			components.Logger.Warn("health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": components.Config.Service.Name,
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": components.Config.Service.Name,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
