package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/kapal-registry/internal/api/apierr"
	"github.com/mcoot/kapal-registry/internal/api/handler"
	"github.com/mcoot/kapal-registry/internal/api/middleware"
	"github.com/mcoot/kapal-registry/internal/api/response"
	"github.com/mcoot/kapal-registry/internal/services/auth"
	"github.com/mcoot/kapal-registry/internal/services/fleet"
	"github.com/mcoot/kapal-registry/internal/services/token"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger       *slog.Logger
	AuthService  *auth.Service
	FleetService *fleet.Service
	Tokens       token.Codec
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	shipHandler := handler.NewShipHandler(cfg.FleetService)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Tokens)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Account routes (no auth required)
	r.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	// Ship routes: reads need any identity, writes need an admin
	ships := r.PathPrefix("/kapal").Subrouter()
	ships.Use(authMiddleware)
	ships.HandleFunc("", shipHandler.List).Methods(http.MethodGet)
	ships.Handle("", middleware.RequireMutator(http.HandlerFunc(shipHandler.Create))).Methods(http.MethodPost)
	ships.Handle("/{id}", middleware.RequireMutator(http.HandlerFunc(shipHandler.Update))).Methods(http.MethodPut)
	ships.Handle("/{id}", middleware.RequireMutator(http.HandlerFunc(shipHandler.Delete))).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.WriteError(w, apierr.NewNotFoundError())
}
