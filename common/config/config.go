package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service   ServiceConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	Policy    PolicyConfig
	Fanout    FanoutConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string `env:"-"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"` // text for development, json in production
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host          string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port          int           `env:"POSTGRES_PORT" envDefault:"5432"`
	Database      string        `env:"POSTGRES_DB" envDefault:"fridaygt"`
	User          string        `env:"POSTGRES_USER" envDefault:"fridaygt"`
	Password      string        `env:"POSTGRES_PASSWORD" envDefault:"fridaygt"`
	SSLMode       string        `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxConns      int           `env:"POSTGRES_MAX_CONNS" envDefault:"20"`
	MinConns      int           `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	MaxIdleTime   time.Duration `env:"POSTGRES_MAX_IDLE_TIME" envDefault:"30m"`
	MaxLifetime   time.Duration `env:"POSTGRES_MAX_LIFETIME" envDefault:"1h"`
	AutoMigrate   bool          `env:"POSTGRES_AUTO_MIGRATE" envDefault:"true"`
	StatementWait time.Duration `env:"POSTGRES_LOCK_TIMEOUT" envDefault:"5s"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// CacheConfig holds cache settings
type CacheConfig struct {
	Enabled    bool          `env:"CACHE_ENABLED" envDefault:"true"`
	Backend    string        `env:"CACHE_BACKEND" envDefault:"memory"` // "memory" or "redis"
	DefaultTTL time.Duration `env:"CACHE_DEFAULT_TTL" envDefault:"5m"`
}

// RateLimitConfig holds per-user limits for mutating routes
type RateLimitConfig struct {
	Enabled       bool  `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	UserLimit     int64 `env:"RATE_LIMIT_USER" envDefault:"120"`
	WindowSeconds int   `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
}

// TelemetryConfig holds observability settings
type TelemetryConfig struct {
	EnablePprof   bool `env:"ENABLE_PPROF" envDefault:"false"`
	PprofPort     int  `env:"PPROF_PORT" envDefault:"6060"`
	EnableMetrics bool `env:"ENABLE_METRICS" envDefault:"true"`
	MetricsPort   int  `env:"METRICS_PORT" envDefault:"9090"`
}

// PolicyConfig holds the CEL rules deciding who may reorder each collection
type PolicyConfig struct {
	ReorderMembers string `env:"POLICY_REORDER_MEMBERS" envDefault:"principal.role == 'admin'"`
	ReorderRaces   string `env:"POLICY_REORDER_RACES" envDefault:"principal.role in ['admin', 'member']"`
}

// FanoutConfig holds realtime push settings
type FanoutConfig struct {
	Port           int      `env:"FANOUT_PORT" envDefault:"8084"`
	AllowedOrigins []string `env:"FANOUT_ALLOWED_ORIGINS" envSeparator:","`
}

// Load loads configuration from .env files (if present) and environment variables
func Load(serviceName string) (*Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Service.Name = serviceName

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}

	if c.RateLimit.Enabled && (c.RateLimit.UserLimit < 1 || c.RateLimit.WindowSeconds < 1) {
		return fmt.Errorf("rate limit and window must be positive")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// RedisAddr returns host:port for the Redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// loadEnvFiles loads whichever of the given files exist; real env vars win.
func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
