package realtime

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// serveSSE streams broadcasts to a client as server-sent events
func (h *Handler) serveSSE(w http.ResponseWriter, r *http.Request) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sub := NewSubscriber("sse")
	if err := h.hub.Register(sub); err != nil {
		http.Error(w, "Realtime unavailable", http.StatusServiceUnavailable)
		return
	}
	defer h.hub.Unregister(sub)
	sub.Open()

	// Send initial connection event
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	rc := http.NewResponseController(w)
	for {
		select {
		case message, ok := <-sub.Messages():
			if !ok {
				// Hub closed the queue
				return
			}
			_ = rc.SetWriteDeadline(time.Now().Add(writeWait))
			if _, err := w.Write(formatSSEMessage(EventDataChanged, string(message))); err != nil {
				h.logger.Warn("sse write failed",
					slog.String("subscriber_id", string(sub.ID())),
					slog.Any("error", err))
				sub.MarkClosed()
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				sub.MarkClosed()
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data.
// Each line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
