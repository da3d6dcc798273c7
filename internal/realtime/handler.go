package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/net/websocket"
)

// Handler serves the realtime endpoints
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler returns a router exposing /ws, /events and /health for hub
func NewHandler(hub *Hub, logger *slog.Logger) http.Handler {
	h := &Handler{
		hub:    hub,
		logger: logger.With(slog.String("component", "realtime-transport")),
	}

	r := mux.NewRouter()
	// No Handshake: clients without an Origin header are accepted
	r.Handle("/ws", websocket.Server{Handler: h.serveWebSocket}).Methods(http.MethodGet)
	r.HandleFunc("/events", h.serveSSE).Methods(http.MethodGet)
	r.HandleFunc("/health", h.health).Methods(http.MethodGet)
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":      "ok",
		"subscribers": h.hub.SubscriberCount(),
	})
}
