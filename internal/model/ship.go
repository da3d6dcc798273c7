package model

import "time"

// ShipID uniquely identifies a ship record
type ShipID int64

// ShipFields are the client-writable attributes of a ship record
type ShipFields struct {
	Name          string
	Type          string
	CargoCapacity float64
}

// Ship is a persisted fleet registry entry
type Ship struct {
	ID ShipID
	ShipFields
	RegisteredAt time.Time // assigned by the server at creation
}
