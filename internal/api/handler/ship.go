package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/kapal-registry/internal/api/apierr"
	"github.com/mcoot/kapal-registry/internal/api/request"
	"github.com/mcoot/kapal-registry/internal/api/response"
	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/services/fleet"
)

// ShipHandler handles ship registry endpoints
type ShipHandler struct {
	fleet *fleet.Service
}

// NewShipHandler creates a new ship handler
func NewShipHandler(fleetService *fleet.Service) *ShipHandler {
	return &ShipHandler{
		fleet: fleetService,
	}
}

// List handles GET /kapal
func (h *ShipHandler) List(w http.ResponseWriter, r *http.Request) {
	ships, err := h.fleet.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ShipsFromModel(ships))
}

// Create handles POST /kapal
func (h *ShipHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeShip(w, r)
	if !ok {
		return
	}

	ship, err := h.fleet.Create(r.Context(), fields)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.ShipFromModel(ship))
}

// Update handles PUT /kapal/{id}
func (h *ShipHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := shipID(w, r)
	if !ok {
		return
	}
	fields, ok := decodeShip(w, r)
	if !ok {
		return
	}

	if err := h.fleet.Update(r.Context(), id, fields); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Kapal updated"})
}

// Delete handles DELETE /kapal/{id}
func (h *ShipHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := shipID(w, r)
	if !ok {
		return
	}

	if err := h.fleet.Delete(r.Context(), id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Kapal deleted"})
}

func shipID(w http.ResponseWriter, r *http.Request) (model.ShipID, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("id must be an integer"))
		return 0, false
	}
	return model.ShipID(id), true
}

func decodeShip(w http.ResponseWriter, r *http.Request) (model.ShipFields, bool) {
	var req request.ShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return model.ShipFields{}, false
	}
	return model.ShipFields{
		Name:          req.Name,
		Type:          req.Type,
		CargoCapacity: req.CargoCapacity,
	}, true
}
