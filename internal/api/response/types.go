package response

import (
	"time"

	"github.com/mcoot/kapal-registry/internal/model"
)

// RegisterResponse is the response for a successful registration
type RegisterResponse struct {
	UserID  model.UserID `json:"id_user"`
	Message string       `json:"message"`
}

// LoginResponse carries a session token
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// Ship represents a ship record in API responses
type Ship struct {
	ID            model.ShipID `json:"id_kapal"`
	Name          string       `json:"nama_kapal"`
	Type          string       `json:"jenis_kapal"`
	CargoCapacity float64      `json:"kapasitas_muatan"`
	RegisteredAt  time.Time    `json:"waktu_terdaftar"`
}

// ShipFromModel converts a model.Ship to a response Ship
func ShipFromModel(s model.Ship) Ship {
	return Ship{
		ID:            s.ID,
		Name:          s.Name,
		Type:          s.Type,
		CargoCapacity: s.CargoCapacity,
		RegisteredAt:  s.RegisteredAt,
	}
}

// ShipsFromModel converts a list of ships, never returning nil
func ShipsFromModel(ships []model.Ship) []Ship {
	result := make([]Ship, 0, len(ships))
	for _, s := range ships {
		result = append(result, ShipFromModel(s))
	}
	return result
}

// HealthResponse is the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
