package storage

import (
	"context"

	"github.com/mcoot/kapal-registry/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	// CreateUser assigns the user's ID. Returns model.ErrUsernameTaken when
	// the username is already registered.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// Ship operations
	ListShips(ctx context.Context) ([]model.Ship, error)
	// CreateShip assigns the ship's ID.
	CreateShip(ctx context.Context, ship *model.Ship) error
	// UpdateShip and DeleteShip report how many records matched. Zero is
	// not an error.
	UpdateShip(ctx context.Context, id model.ShipID, fields model.ShipFields) (int64, error)
	DeleteShip(ctx context.Context, id model.ShipID) (int64, error)

	Close() error
}
