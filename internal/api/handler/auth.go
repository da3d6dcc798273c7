package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/kapal-registry/internal/api/apierr"
	"github.com/mcoot/kapal-registry/internal/api/request"
	"github.com/mcoot/kapal-registry/internal/api/response"
	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/services/auth"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	id, err := h.authService.Register(r.Context(), req.Username, req.Password, model.Role(req.Role))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponse{
		UserID:  id,
		Message: "User registered",
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	tok, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{Token: tok})
}
