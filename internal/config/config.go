package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageTypeMemory   = "memory"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
	StorageTypeRedis    = "redis"
)

// Config is the server configuration read from the environment
type Config struct {
	HTTPAddr     string        `env:"KAPAL_HTTP_ADDR" envDefault:":3000"`
	RealtimeAddr string        `env:"KAPAL_REALTIME_ADDR" envDefault:":4000"`
	JWTSecret    string        `env:"KAPAL_JWT_SECRET,required"`
	TokenTTL     time.Duration `env:"KAPAL_TOKEN_TTL" envDefault:"24h"`
	StorageType  string        `env:"KAPAL_STORAGE_TYPE" envDefault:"memory"`
	SQLitePath   string        `env:"KAPAL_SQLITE_PATH" envDefault:"kapal.db"`
	PostgresDSN  string        `env:"KAPAL_POSTGRES_DSN"`
	RedisURL     string        `env:"KAPAL_REDIS_URL"`
	LogLevel     string        `env:"KAPAL_LOG_LEVEL" envDefault:"info"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the server configuration
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("KAPAL_JWT_SECRET must not be empty")
	}
	if c.TokenTTL < 0 {
		return errors.New("KAPAL_TOKEN_TTL must not be negative")
	}
	switch c.StorageType {
	case StorageTypeMemory:
	case StorageTypeSQLite:
		if c.SQLitePath == "" {
			return errors.New("KAPAL_SQLITE_PATH required when KAPAL_STORAGE_TYPE=sqlite")
		}
	case StorageTypePostgres:
		if c.PostgresDSN == "" {
			return errors.New("KAPAL_POSTGRES_DSN required when KAPAL_STORAGE_TYPE=postgres")
		}
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("KAPAL_REDIS_URL required when KAPAL_STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid KAPAL_STORAGE_TYPE %q: must be memory, sqlite, postgres or redis", c.StorageType)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel converts a level name such as "debug" to a slog.Level
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid KAPAL_LOG_LEVEL %q: %w", name, err)
	}
	return level, nil
}
