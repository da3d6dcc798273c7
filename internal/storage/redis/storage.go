package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	id, err := s.client.Incr(ctx, userSeqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate user id: %w", err)
	}

	stored := *user
	stored.ID = model.UserID(id)
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	// The username index doubles as the unique constraint
	indexKey := usernameIndexKey(user.Username)
	claimed, err := s.client.SetNX(ctx, indexKey, id, 0).Result()
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !claimed {
		return model.ErrUsernameTaken
	}

	if err := s.client.Set(ctx, userKey(stored.ID), data, 0).Err(); err != nil {
		// Release the claim so the username is not left pointing at nothing
		if delErr := s.client.Del(context.WithoutCancel(ctx), indexKey).Err(); delErr != nil {
			return errors.Join(fmt.Errorf("write user: %w", err), fmt.Errorf("release username: %w", delErr))
		}
		return fmt.Errorf("write user: %w", err)
	}
	user.ID = stored.ID
	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	// Look up user ID from username index
	idStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt username index for %q: %w", username, err)
	}

	data, err := s.client.Get(ctx, userKey(model.UserID(id))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Ship operations

func (s *Storage) ListShips(ctx context.Context) ([]model.Ship, error) {
	ids, err := s.client.ZRange(ctx, shipsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Ship{}, nil
	}

	keys := make([]string, len(ids))
	for i, idStr := range ids {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt ship index entry %q: %w", idStr, err)
		}
		keys[i] = shipKey(model.ShipID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	ships := make([]model.Ship, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// Index entry without a record (deleted between ZRANGE and MGET)
			continue
		}
		var ship model.Ship
		if err := json.Unmarshal([]byte(str), &ship); err != nil {
			return nil, err
		}
		ships = append(ships, ship)
	}
	return ships, nil
}

func (s *Storage) CreateShip(ctx context.Context, ship *model.Ship) error {
	id, err := s.client.Incr(ctx, shipSeqKey()).Result()
	if err != nil {
		return fmt.Errorf("allocate ship id: %w", err)
	}
	ship.ID = model.ShipID(id)

	data, err := json.Marshal(ship)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, shipKey(ship.ID), data, 0)
	pipe.ZAdd(ctx, shipsIndexKey(), redis.Z{Score: float64(id), Member: id})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) UpdateShip(ctx context.Context, id model.ShipID, fields model.ShipFields) (int64, error) {
	key := shipKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}

	var ship model.Ship
	if err := json.Unmarshal(data, &ship); err != nil {
		return 0, err
	}
	ship.ShipFields = fields

	updated, err := json.Marshal(ship)
	if err != nil {
		return 0, err
	}

	// XX: a concurrent delete wins over this overwrite
	ok, err := s.client.SetXX(ctx, key, updated, 0).Result()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return 1, nil
}

func (s *Storage) DeleteShip(ctx context.Context, id model.ShipID) (int64, error) {
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, shipKey(id))
	pipe.ZRem(ctx, shipsIndexKey(), int64(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return del.Val(), nil
}
