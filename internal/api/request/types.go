package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ShipRequest is the request body for creating or updating a ship
type ShipRequest struct {
	Name          string  `json:"nama_kapal"`
	Type          string  `json:"jenis_kapal"`
	CargoCapacity float64 `json:"kapasitas_muatan"`
}
