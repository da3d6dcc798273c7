package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	ships         map[model.ShipID]*model.Ship

	nextUserID model.UserID
	nextShipID model.ShipID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:         make(map[model.UserID]*model.User),
		usernameIndex: make(map[string]model.UserID),
		ships:         make(map[model.ShipID]*model.Ship),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[user.Username]; ok {
		return model.ErrUsernameTaken
	}

	s.nextUserID++
	user.ID = s.nextUserID

	stored := *user
	s.users[stored.ID] = &stored
	s.usernameIndex[stored.Username] = stored.ID
	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Ship operations

func (s *Storage) ListShips(ctx context.Context) ([]model.Ship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ships := make([]model.Ship, 0, len(s.ships))
	for _, ship := range s.ships {
		ships = append(ships, *ship)
	}
	// Insertion order, like an auto-increment table scan
	sort.Slice(ships, func(i, j int) bool {
		return ships[i].ID < ships[j].ID
	})
	return ships, nil
}

func (s *Storage) CreateShip(ctx context.Context, ship *model.Ship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextShipID++
	ship.ID = s.nextShipID

	stored := *ship
	s.ships[stored.ID] = &stored
	return nil
}

func (s *Storage) UpdateShip(ctx context.Context, id model.ShipID, fields model.ShipFields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ship, ok := s.ships[id]
	if !ok {
		return 0, nil
	}
	ship.ShipFields = fields
	return 1, nil
}

func (s *Storage) DeleteShip(ctx context.Context, id model.ShipID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ships[id]; !ok {
		return 0, nil
	}
	delete(s.ships, id)
	return 1, nil
}
