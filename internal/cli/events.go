package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/websocket"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream ship change notifications",
		Long: `Connect to the realtime WebSocket endpoint and print every change
notification as it arrives.

Each notification is a data_changed envelope carrying the created, updated
or deleted ship record. Earlier changes are not replayed.

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return streamEvents(ctx, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// Event is a change notification received from the realtime endpoint
type Event struct {
	Time    time.Time         `json:"time"`
	Event   string            `json:"event"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

// websocketURL converts an http(s) base URL into the ws(s) URL of /ws
func websocketURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws"
}

func streamEvents(ctx context.Context, jsonOutput bool) error {
	origin := strings.TrimSuffix(cfg.RealtimeURL, "/")
	conn, err := websocket.Dial(websocketURL(cfg.RealtimeURL), "", origin)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Close the socket on cancellation to unblock Receive
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to %s\n", websocketURL(cfg.RealtimeURL))
	}

	for {
		var msg string
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		var evt Event
		if err := json.Unmarshal([]byte(msg), &evt); err != nil {
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "skipping malformed message: %v\n", err)
			}
			continue
		}
		evt.Time = time.Now()
		printEvent(evt, jsonOutput)
	}
}

func printEvent(evt Event, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.Marshal(evt)
		fmt.Println(string(jsonData))
		return
	}

	timestamp := evt.Time.Format("2006-01-02 15:04:05")
	parts := make([]string, 0, len(evt.Data))
	for _, d := range evt.Data {
		parts = append(parts, string(d))
	}
	// Truncate data if it's too long for display
	displayData := strings.Join(parts, " ")
	if len(displayData) > 200 {
		displayData = displayData[:200] + "..."
	}
	fmt.Printf("[%s] %s: %s %s\n", timestamp, evt.Event, evt.Message, displayData)
}
