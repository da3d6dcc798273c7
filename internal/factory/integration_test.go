package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/kapal-registry/internal/config"
	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/realtime"
	"github.com/mcoot/kapal-registry/internal/services/auth"
	"github.com/mcoot/kapal-registry/internal/services/token"
	redisstorage "github.com/mcoot/kapal-registry/internal/storage/redis"
	"github.com/mcoot/kapal-registry/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Close())
}

func (s *IntegrationSuite) subscriber() *realtime.Subscriber {
	sub := realtime.NewSubscriber("test")
	sub.Open()
	s.Require().NoError(s.app.Hub.Register(sub))
	return sub
}

// Test: register, log in, then manage the fleet with one subscriber watching
func (s *IntegrationSuite) TestFleetLifecycle() {
	id, err := s.app.AuthService.Register(s.ctx, "admin", "adminpw", model.RoleAdmin)
	s.Require().NoError(err)

	tok, err := s.app.AuthService.Login(s.ctx, "admin", "adminpw")
	s.Require().NoError(err)
	claims, err := s.app.Tokens.Verify(tok)
	s.Require().NoError(err)
	s.Equal(id, claims.UserID)

	sub := s.subscriber()

	ship, err := s.app.FleetService.Create(s.ctx, model.ShipFields{Name: "KM Sinar", Type: "Cargo", CargoCapacity: 10})
	s.Require().NoError(err)
	s.Equal(s.app.MockClock.Now(), ship.RegisteredAt)

	s.Require().NoError(s.app.FleetService.Update(s.ctx, ship.ID, model.ShipFields{Name: "KM Sinar II"}))
	s.Require().NoError(s.app.FleetService.Delete(s.ctx, ship.ID))

	s.Len(sub.Messages(), 3)

	ships, err := s.app.FleetService.List(s.ctx)
	s.Require().NoError(err)
	s.Empty(ships)
}

// Test: tokens honour the configured lifetime against the injected clock
func (s *IntegrationSuite) TestTokenExpiryFollowsClock() {
	_, err := s.app.AuthService.Register(s.ctx, "u", "pw", "")
	s.Require().NoError(err)
	tok, err := s.app.AuthService.Login(s.ctx, "u", "pw")
	s.Require().NoError(err)

	s.app.MockClock.Advance(token.DefaultTTL - time.Second)
	_, err = s.app.Tokens.Verify(tok)
	s.NoError(err)

	s.app.MockClock.Advance(2 * time.Second)
	_, err = s.app.Tokens.Verify(tok)
	s.ErrorIs(err, token.ErrInvalidToken)
}

// Test: duplicate registration surfaces the auth error, not a storage one
func (s *IntegrationSuite) TestDuplicateRegistration() {
	_, err := s.app.AuthService.Register(s.ctx, "alice", "pw", model.RoleUser)
	s.Require().NoError(err)

	_, err = s.app.AuthService.Register(s.ctx, "alice", "pw", model.RoleUser)
	s.ErrorIs(err, auth.ErrUsernameExists)
}

func TestNewWithStorageBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "default", cfg: Config{}},
		{name: "memory", cfg: Config{StorageType: config.StorageTypeMemory}},
		{name: "sqlite", cfg: Config{StorageType: config.StorageTypeSQLite, SQLitePath: filepath.Join(t.TempDir(), "kapal.db")}},
		{name: "redis", cfg: Config{StorageType: config.StorageTypeRedis, RedisConfig: &redisCfg}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := tt.cfg
			cfg.Logger = testutil.NopLogger()
			cfg.Token = token.Config{Secret: []byte("s"), TTL: time.Hour}
			cfg.BcryptCost = 4

			app, err := New(ctx, cfg)
			if err != nil {
				t.Fatalf("new app: %v", err)
			}
			defer func() { _ = app.Close() }()

			if _, err := app.AuthService.Register(ctx, "admin", "pw", model.RoleAdmin); err != nil {
				t.Fatalf("register: %v", err)
			}
			if _, err := app.FleetService.Create(ctx, model.ShipFields{Name: "KM Uji"}); err != nil {
				t.Fatalf("create ship: %v", err)
			}
			ships, err := app.FleetService.List(ctx)
			if err != nil {
				t.Fatalf("list ships: %v", err)
			}
			if len(ships) != 1 || ships[0].Name != "KM Uji" {
				t.Fatalf("unexpected ships: %+v", ships)
			}
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	ctx := context.Background()
	secret := token.Config{Secret: []byte("s")}

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown storage", cfg: Config{StorageType: "mysql", Token: secret}},
		{name: "redis without config", cfg: Config{StorageType: config.StorageTypeRedis, Token: secret}},
		{name: "sqlite without path", cfg: Config{StorageType: config.StorageTypeSQLite, Token: secret}},
		{name: "missing secret", cfg: Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(ctx, tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(config.Config{
		JWTSecret:   "s3cret",
		TokenTTL:    time.Hour,
		StorageType: config.StorageTypeRedis,
		RedisURL:    "redis://cache:6379",
	}, testutil.NopLogger())

	if string(cfg.Token.Secret) != "s3cret" || cfg.Token.TTL != time.Hour {
		t.Fatalf("unexpected token config: %+v", cfg.Token)
	}
	if cfg.RedisConfig == nil || cfg.RedisConfig.URL != "redis://cache:6379" {
		t.Fatalf("unexpected redis config: %+v", cfg.RedisConfig)
	}
}
