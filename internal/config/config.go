// Package config loads application configuration from environment
// variables (optionally seeded from a .env file by the caller).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/iliyamo/rental-booking/internal/database"
	"github.com/iliyamo/rental-booking/internal/storage"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.
type Config struct {
	Env  string // APP_ENV (dev, test, prod)
	Port string // APP_PORT

	Storage storage.Kind    // STORAGE_KIND
	DataDir string          // DATA_DIR, file backend only
	DB      database.Config // DB_*, relational backend only

	JWTSecret  string        // JWT_SECRET
	AccessTTL  time.Duration // ACCESS_TOKEN_TTL_MIN
	AdminEmail string        // ADMIN_EMAIL

	LogLevel  string // LOG_LEVEL
	LogFormat string // LOG_FORMAT (text or json)

	EventsEnabled bool   // EVENTS_ENABLED
	RabbitURL     string // RABBITMQ_URL (AMQP_URL accepted)
	BookingLogDir string // BOOKING_LOG_DIR

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// Load reads the configuration.  Missing required variables and invalid
// values are all reported at once.
func Load() (Config, error) {
	var errs []error
	required := func(key string) string {
		v := envStr(key, "")
		if v == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", key))
		}
		return v
	}

	c := Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "8080"),
		DataDir:       envStr("DATA_DIR", "data"),
		JWTSecret:     required("JWT_SECRET"),
		AccessTTL:     time.Duration(envInt("ACCESS_TOKEN_TTL_MIN", 60)) * time.Minute,
		AdminEmail:    envStr("ADMIN_EMAIL", "admin"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		LogFormat:     envStr("LOG_FORMAT", "text"),
		EventsEnabled: envBool("EVENTS_ENABLED", false),
		RabbitURL:     envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		BookingLogDir: envStr("BOOKING_LOG_DIR", "logs"),
		Redis:         LoadRedisConfig(),
		Cache:         LoadCacheConfig(),
		RateLimit:     LoadRateLimitConfig(),
	}

	kind, err := storage.ParseKind(envStr("STORAGE_KIND", string(storage.KindMemory)))
	if err != nil {
		errs = append(errs, err)
	}
	c.Storage = kind

	if c.Storage == storage.KindRelational {
		c.DB = database.Config{
			Driver: envStr("DB_DRIVER", database.DriverMySQL),
			User:   required("DB_USER"),
			Pass:   os.Getenv("DB_PASS"),
			Host:   required("DB_HOST"),
			Port:   required("DB_PORT"),
			Name:   required("DB_NAME"),
		}
		switch c.DB.Driver {
		case database.DriverMySQL, database.DriverPostgres:
		default:
			errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", c.DB.Driver))
		}
	}

	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL_MIN must be positive"))
	}
	return c, errors.Join(errs...)
}
