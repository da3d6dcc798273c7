package realtime

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/kapal-registry/internal/model"
)

const (
	EventDataChanged   = "data_changed"
	DataChangedMessage = "Data kapal telah diperbarui."
)

// Envelope is the message pushed to subscribers after a ship mutation
type Envelope struct {
	Event   string `json:"event"`
	Message string `json:"message"`
	Data    []any  `json:"data"`
}

type shipCreated struct {
	ID            model.ShipID `json:"id_kapal"`
	Name          string       `json:"nama_kapal"`
	Type          string       `json:"jenis_kapal"`
	CargoCapacity float64      `json:"kapasitas_muatan"`
	RegisteredAt  time.Time    `json:"waktu_terdaftar"`
}

type shipUpdated struct {
	ID            model.ShipID `json:"id_kapal"`
	Name          string       `json:"nama_kapal"`
	Type          string       `json:"jenis_kapal"`
	CargoCapacity float64      `json:"kapasitas_muatan"`
}

type shipDeleted struct {
	ID model.ShipID `json:"id_kapal"`
}

// Broadcaster turns ship mutations into envelopes on a hub
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "realtime-broadcaster")),
	}
}

func (b *Broadcaster) ShipCreated(ship model.Ship) {
	b.publish(shipCreated{
		ID:            ship.ID,
		Name:          ship.Name,
		Type:          ship.Type,
		CargoCapacity: ship.CargoCapacity,
		RegisteredAt:  ship.RegisteredAt,
	})
}

// ShipUpdated publishes the written fields only; the registration time is
// never modified by an update.
func (b *Broadcaster) ShipUpdated(id model.ShipID, fields model.ShipFields) {
	b.publish(shipUpdated{
		ID:            id,
		Name:          fields.Name,
		Type:          fields.Type,
		CargoCapacity: fields.CargoCapacity,
	})
}

func (b *Broadcaster) ShipDeleted(id model.ShipID) {
	b.publish(shipDeleted{ID: id})
}

func (b *Broadcaster) publish(data any) {
	msg, err := json.Marshal(Envelope{
		Event:   EventDataChanged,
		Message: DataChangedMessage,
		Data:    []any{data},
	})
	if err != nil {
		b.logger.Error("failed to encode change envelope", slog.Any("error", err))
		return
	}
	b.hub.Broadcast(msg)
}
