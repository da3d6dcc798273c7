package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/kapal-registry/internal/api"
	"github.com/mcoot/kapal-registry/internal/config"
	"github.com/mcoot/kapal-registry/internal/dependencies/clock"
	"github.com/mcoot/kapal-registry/internal/realtime"
	"github.com/mcoot/kapal-registry/internal/services/auth"
	"github.com/mcoot/kapal-registry/internal/services/fleet"
	"github.com/mcoot/kapal-registry/internal/services/token"
	"github.com/mcoot/kapal-registry/internal/storage"
	"github.com/mcoot/kapal-registry/internal/storage/memory"
	redisstorage "github.com/mcoot/kapal-registry/internal/storage/redis"
	"github.com/mcoot/kapal-registry/internal/storage/sqlstore"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Logger *slog.Logger

	// Services
	Tokens       *token.JWTCodec
	AuthService  *auth.Service
	FleetService *fleet.Service

	// Realtime
	Hub         *realtime.Hub
	Broadcaster *realtime.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Token holds the signing secret and token lifetime
	Token token.Config
	// BcryptCost is the password hashing cost (optional)
	BcryptCost int
}

// ConfigFromEnv converts the environment configuration into a factory Config
func ConfigFromEnv(cfg config.Config, logger *slog.Logger) Config {
	out := Config{
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
		Token: token.Config{
			Secret: []byte(cfg.JWTSecret),
			TTL:    cfg.TokenTTL,
		},
	}
	if cfg.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		out.RedisConfig = &redisCfg
	}
	return out
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app, err := newWithDependencies(store, clock.New(), cfg.Token, auth.NewBcryptHasher(cfg.BcryptCost), logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return app, nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.StorageTypePostgres:
		return sqlstore.OpenPostgres(ctx, cfg.PostgresDSN)
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'sqlite', 'postgres' or 'redis'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, tokenCfg token.Config, hasher auth.Hasher, logger *slog.Logger) (*App, error) {
	tokens, err := token.NewJWTCodec(tokenCfg, clk)
	if err != nil {
		return nil, fmt.Errorf("create token codec: %w", err)
	}

	hub := realtime.NewHub(logger)
	broadcaster := realtime.NewBroadcaster(hub, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Logger:       logger,
		Tokens:       tokens,
		AuthService:  auth.New(store, hasher, tokens, logger),
		FleetService: fleet.New(store, clk, broadcaster, logger),
		Hub:          hub,
		Broadcaster:  broadcaster,
	}, nil
}

// APIHandler returns the REST router
func (a *App) APIHandler() http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:       a.Logger,
		AuthService:  a.AuthService,
		FleetService: a.FleetService,
		Tokens:       a.Tokens,
	})
}

// RealtimeHandler returns the router for realtime subscribers
func (a *App) RealtimeHandler() http.Handler {
	return realtime.NewHandler(a.Hub, a.Logger)
}

// Close disconnects realtime subscribers and releases storage
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
