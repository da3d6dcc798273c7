package realtime

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/net/websocket"
)

const maxLoggedFrameBytes = 512

// serveWebSocket runs one WebSocket subscriber. Broadcasts are written by a
// dedicated goroutine; the calling goroutine reads and logs inbound frames
// until the peer goes away.
func (h *Handler) serveWebSocket(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	sub := NewSubscriber("websocket")
	sub.Open()
	if err := h.hub.Register(sub); err != nil {
		h.logger.Warn("websocket rejected", slog.Any("error", err))
		return
	}

	done := make(chan struct{})
	go h.writeWebSocket(conn, sub, done)

	h.readWebSocket(conn, sub)
	h.hub.Unregister(sub)
	<-done
}

func (h *Handler) readWebSocket(conn *websocket.Conn, sub *Subscriber) {
	for {
		var frame string
		if err := websocket.Message.Receive(conn, &frame); err != nil {
			if !errors.Is(err, io.EOF) {
				h.logger.Debug("websocket read ended",
					slog.String("subscriber_id", string(sub.ID())),
					slog.Any("error", err))
			}
			return
		}

		logged := frame
		if len(logged) > maxLoggedFrameBytes {
			logged = logged[:maxLoggedFrameBytes]
		}
		h.logger.Info("websocket message received",
			slog.String("subscriber_id", string(sub.ID())),
			slog.String("message", logged))
	}
}

func (h *Handler) writeWebSocket(conn *websocket.Conn, sub *Subscriber, done chan<- struct{}) {
	defer close(done)

	for msg := range sub.Messages() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := websocket.Message.Send(conn, string(msg)); err != nil {
			h.logger.Warn("websocket write failed",
				slog.String("subscriber_id", string(sub.ID())),
				slog.Any("error", err))
			sub.MarkClosed()
			_ = conn.Close()
			// Wait for the reader to unregister us.
			for range sub.Messages() {
			}
			return
		}
	}

	// Queue closed by the hub
	_ = conn.Close()
}
