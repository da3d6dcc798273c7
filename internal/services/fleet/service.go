package fleet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/kapal-registry/internal/dependencies/clock"
	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/storage"
)

// Notifier receives ship mutations after they have been committed
type Notifier interface {
	ShipCreated(ship model.Ship)
	ShipUpdated(id model.ShipID, fields model.ShipFields)
	ShipDeleted(id model.ShipID)
}

// Service manages the ship registry
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	notifier Notifier
	logger   *slog.Logger
}

// New creates a new fleet service
func New(storage storage.Storage, clk clock.Clock, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		clock:    clk,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "fleet")),
	}
}

// List returns every registered ship ordered by ID
func (s *Service) List(ctx context.Context) ([]model.Ship, error) {
	ships, err := s.storage.ListShips(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ships: %w", err)
	}
	if ships == nil {
		ships = []model.Ship{}
	}
	return ships, nil
}

// Create registers a ship, stamping it with the current time
func (s *Service) Create(ctx context.Context, fields model.ShipFields) (model.Ship, error) {
	ship := model.Ship{
		ShipFields:   fields,
		RegisteredAt: s.clock.Now().UTC().Truncate(time.Millisecond),
	}
	if err := s.storage.CreateShip(ctx, &ship); err != nil {
		return model.Ship{}, fmt.Errorf("create ship: %w", err)
	}

	s.logger.Info("ship registered", slog.Int64("ship_id", int64(ship.ID)))
	s.notifier.ShipCreated(ship)
	return ship, nil
}

// Update replaces the mutable fields of a ship. Updating an unknown ID is
// not an error; subscribers are still notified.
func (s *Service) Update(ctx context.Context, id model.ShipID, fields model.ShipFields) error {
	n, err := s.storage.UpdateShip(ctx, id, fields)
	if err != nil {
		return fmt.Errorf("update ship %d: %w", id, err)
	}
	if n == 0 {
		s.logger.Warn("update matched no ship", slog.Int64("ship_id", int64(id)))
	} else {
		s.logger.Info("ship updated", slog.Int64("ship_id", int64(id)))
	}

	s.notifier.ShipUpdated(id, fields)
	return nil
}

// Delete removes a ship. Deleting an unknown ID is not an error;
// subscribers are still notified.
func (s *Service) Delete(ctx context.Context, id model.ShipID) error {
	n, err := s.storage.DeleteShip(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ship %d: %w", id, err)
	}
	if n == 0 {
		s.logger.Warn("delete matched no ship", slog.Int64("ship_id", int64(id)))
	} else {
		s.logger.Info("ship deleted", slog.Int64("ship_id", int64(id)))
	}

	s.notifier.ShipDeleted(id)
	return nil
}
