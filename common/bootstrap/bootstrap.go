package bootstrap

import (
	"context"
	"fmt"

	"github.com/fridaygt/fridaygt/common/cache"
	"github.com/fridaygt/fridaygt/common/config"
	"github.com/fridaygt/fridaygt/common/db"
	"github.com/fridaygt/fridaygt/common/logger"
	"github.com/fridaygt/fridaygt/common/ratelimit"
	rediscommon "github.com/fridaygt/fridaygt/common/redis"
	"github.com/fridaygt/fridaygt/common/telemetry"
)

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := components.Config

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(cfg.Service.LogLevel, cfg.Service.LogFormat)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", cfg.Service.Environment,
	)

	// 3. Initialize database (if not skipped)
	if !options.skipDB {
		components.Logger.Info("connecting to database")
		components.DB, err = db.New(ctx, cfg, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		components.addCleanup(func(context.Context) error {
			components.DB.Close()
			return nil
		})

		if cfg.Database.AutoMigrate {
			if err := db.Migrate(ctx, components.DB); err != nil {
				components.Shutdown(ctx)
				return nil, fmt.Errorf("database migration failed: %w", err)
			}
		}

		if options.dbInitHook != nil {
			components.Logger.Info("running database init hook")
			if err := options.dbInitHook(ctx, components.DB); err != nil {
				components.Shutdown(ctx) // Cleanup what we've initialized
				return nil, fmt.Errorf("database init hook failed: %w", err)
			}
		}
	}

	// 4. Initialize Redis (if not skipped). Without Redis the service still runs
	// with a memory cache, no realtime events and no rate limiting.
	if !options.skipRedis {
		components.Redis, err = rediscommon.Dial(ctx, rediscommon.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, components.Logger)
		if err != nil {
			if cfg.Cache.Enabled && cfg.Cache.Backend == "redis" {
				components.Shutdown(ctx)
				return nil, fmt.Errorf("failed to connect to redis: %w", err)
			}
			components.Logger.Warn("redis unavailable, continuing without it", "error", err)
			components.Redis = nil
		} else {
			components.addCleanup(func(context.Context) error {
				return components.Redis.Close()
			})
		}
	}

	// 5. Rate limiter
	if components.Redis != nil && cfg.RateLimit.Enabled {
		components.Limiter = ratelimit.NewLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	// 6. Initialize cache (if not skipped)
	if !options.skipCache && cfg.Cache.Enabled {
		backend := cfg.Cache.Backend
		if backend == "redis" && components.Redis == nil {
			backend = "memory"
		}
		components.Logger.Info("initializing cache", "backend", backend, "ttl", cfg.Cache.DefaultTTL)

		switch backend {
		case "redis":
			components.Cache = cache.NewRedisCache(components.Redis, "fridaygt:cache:")
		default:
			components.Cache = cache.NewMemoryCache(components.Logger)
		}

		components.addCleanup(func(context.Context) error {
			return components.Cache.Close()
		})
	}

	// 7. Initialize telemetry (if not skipped)
	if !options.skipTelemetry && (cfg.Telemetry.EnablePprof || cfg.Telemetry.EnableMetrics) {
		pprofPort, metricsPort := 0, 0
		if cfg.Telemetry.EnablePprof {
			pprofPort = cfg.Telemetry.PprofPort
		}
		if cfg.Telemetry.EnableMetrics {
			metricsPort = cfg.Telemetry.MetricsPort
		}
		components.Telemetry = telemetry.New(pprofPort, metricsPort, components.Logger)

		if err := components.Telemetry.Start(ctx); err != nil {
			// Don't fail startup if telemetry fails
			components.Logger.Warn("failed to start telemetry", "error", err)
		} else {
			components.addCleanup(components.Telemetry.Stop)
		}
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"db", components.DB != nil,
		"redis", components.Redis != nil,
		"cache", components.Cache != nil,
		"rate_limit", components.Limiter != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

// MustSetup is like Setup but panics on error
// Useful for services that can't recover from initialization failure
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
