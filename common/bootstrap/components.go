package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/fridaygt/fridaygt/common/cache"
	"github.com/fridaygt/fridaygt/common/config"
	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/ratelimit"
	rediscommon "github.com/fridaygt/fridaygt/common/redis"
	"github.com/fridaygt/fridaygt/common/telemetry"
)

// Components holds all initialized service dependencies.
// Redis, Limiter, Cache and Telemetry may be nil when disabled or unavailable.
type Components struct {
	Config    *config.Config
	Logger    *logger.Logger
	DB        *db.DB
	Redis     *rediscommon.Client
	Cache     cache.Cache
	Limiter   *ratelimit.Limiter
	Telemetry *telemetry.Telemetry

	// Internal
	cleanupFuncs []func(context.Context) error
}

// Shutdown performs graceful shutdown of all components
// Should be called with defer after Setup()
func (c *Components) Shutdown(ctx context.Context) error {
	c.Logger.Info("shutting down components")

	var errs []error

	// LIFO
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](ctx); err != nil {
			errs = append(errs, err)
			c.Logger.Error("cleanup error", "error", err)
		}
	}
	c.cleanupFuncs = nil

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	c.Logger.Info("shutdown complete")
	return nil
}

// Health checks health of all components
func (c *Components) Health(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Health(ctx); err != nil {
			return fmt.Errorf("database unhealthy: %w", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}

	return nil
}

// addCleanup registers a cleanup function
func (c *Components) addCleanup(fn func(context.Context) error) {
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}
