package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrHubClosed = errors.New("realtime hub closed")

// BroadcastResult reports how many subscribers a broadcast reached
type BroadcastResult struct {
	Sent    int
	Skipped int
}

// Hub tracks realtime subscribers and fans messages out to them
type Hub struct {
	subscribers map[SubscriberID]*Subscriber
	closed      bool
	mu          sync.RWMutex
	logger      *slog.Logger
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[SubscriberID]*Subscriber),
		logger:      logger.With(slog.String("component", "realtime")),
	}
}

// Register adds a subscriber to the hub
func (h *Hub) Register(sub *Subscriber) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.subscribers[sub.id] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info("subscriber registered",
		slog.String("subscriber_id", string(sub.id)),
		slog.String("transport", sub.transport),
		slog.Int("total_subscribers", count))
	return nil
}

// Unregister removes a subscriber and closes its queue. Unknown subscribers
// are ignored.
func (h *Hub) Unregister(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subscribers, sub.id)
	sub.MarkClosed()
	close(sub.send)
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info("subscriber unregistered",
		slog.String("subscriber_id", string(sub.id)),
		slog.String("transport", sub.transport),
		slog.Duration("connection_duration", time.Since(sub.connectedAt)),
		slog.Int("total_subscribers", count))
}

// Broadcast offers message to every OPEN subscriber without blocking.
// Subscribers that are not open, or whose queue is full, are skipped.
func (h *Hub) Broadcast(message []byte) BroadcastResult {
	var result BroadcastResult

	h.mu.RLock()
	for _, sub := range h.subscribers {
		if sub.State() != StateOpen {
			result.Skipped++
			continue
		}
		select {
		case sub.send <- message:
			result.Sent++
		default:
			result.Skipped++
			h.logger.Warn("message dropped - subscriber buffer full",
				slog.String("subscriber_id", string(sub.id)))
		}
	}
	h.mu.RUnlock()

	h.logger.Info("broadcast delivered",
		slog.Int("sent", result.Sent),
		slog.Int("skipped", result.Skipped))
	return result
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and rejects new registrations
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	count := len(h.subscribers)
	for id, sub := range h.subscribers {
		sub.MarkClosed()
		close(sub.send)
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	h.logger.Info("realtime hub stopped", slog.Int("disconnected_subscribers", count))
}
