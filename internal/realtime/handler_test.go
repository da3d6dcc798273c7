package realtime

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/mcoot/kapal-registry/internal/testutil"
)

type realtimeServer struct {
	hub         *Hub
	broadcaster *Broadcaster
	server      *httptest.Server
}

func newRealtimeServer(t *testing.T) *realtimeServer {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	srv := httptest.NewServer(NewHandler(hub, testutil.NopLogger()))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return &realtimeServer{
		hub:         hub,
		broadcaster: NewBroadcaster(hub, testutil.NopLogger()),
		server:      srv,
	}
}

func (s *realtimeServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", s.server.URL)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func (s *realtimeServer) waitForSubscribers(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.hub.SubscriberCount() == n
	}, 2*time.Second, 10*time.Millisecond)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg string
	require.NoError(t, websocket.Message.Receive(conn, &msg))
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(msg), &env))
	return env
}

func TestWebSocket_ReceivesBroadcast(t *testing.T) {
	s := newRealtimeServer(t)

	a := s.dial(t)
	b := s.dial(t)
	s.waitForSubscribers(t, 2)

	s.broadcaster.ShipDeleted(3)

	for _, conn := range []*websocket.Conn{a, b} {
		env := readEnvelope(t, conn)
		assert.Equal(t, EventDataChanged, env.Event)
		assert.Equal(t, DataChangedMessage, env.Message)
		assert.Equal(t, []any{map[string]any{"id_kapal": float64(3)}}, env.Data)
	}
}

func TestWebSocket_InboundMessagesAreIgnored(t *testing.T) {
	s := newRealtimeServer(t)

	conn := s.dial(t)
	s.waitForSubscribers(t, 1)

	require.NoError(t, websocket.Message.Send(conn, "hello server"))
	require.NoError(t, websocket.Message.Send(conn, `{"type":"anything"}`))

	s.broadcaster.ShipDeleted(1)
	env := readEnvelope(t, conn)
	assert.Equal(t, EventDataChanged, env.Event)
	assert.Equal(t, 1, s.hub.SubscriberCount())
}

func TestWebSocket_DisconnectUnregisters(t *testing.T) {
	s := newRealtimeServer(t)

	conn := s.dial(t)
	s.waitForSubscribers(t, 1)

	require.NoError(t, conn.Close())
	s.waitForSubscribers(t, 0)

	result := s.hub.Broadcast([]byte(`{}`))
	assert.Equal(t, 0, result.Sent)
}

func TestWebSocket_HubCloseDisconnectsPeer(t *testing.T) {
	s := newRealtimeServer(t)

	conn := s.dial(t)
	s.waitForSubscribers(t, 1)

	s.hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg string
	err := websocket.Message.Receive(conn, &msg)
	assert.Error(t, err)
}

func TestWebSocket_RejectsPlainHTTP(t *testing.T) {
	s := newRealtimeServer(t)

	resp, err := http.Get(s.server.URL + "/ws")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, s.hub.SubscriberCount())
}

func TestWebSocket_AcceptsClientWithoutOrigin(t *testing.T) {
	s := newRealtimeServer(t)

	conn, err := net.Dial("tcp", s.server.Listener.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})
	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

	upgrade := "GET /ws HTTP/1.1\r\n" +
		"Host: " + s.server.Listener.Addr().String() + "\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"
	_, err = conn.Write([]byte(upgrade))
	require.NoError(t, err)

	status, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HTTP/1.1 101 Switching Protocols\r\n", status)

	s.waitForSubscribers(t, 1)
}

func TestSSE_ReceivesBroadcast(t *testing.T) {
	s := newRealtimeServer(t)

	resp, err := http.Get(s.server.URL + "/events")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() []string {
		var lines []string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimSuffix(line, "\n")
			if line == "" {
				return lines
			}
			lines = append(lines, line)
		}
	}

	assert.Equal(t, []string{"event: connected", `data: {"status":"connected"}`}, readEvent())
	s.waitForSubscribers(t, 1)

	s.broadcaster.ShipDeleted(9)

	lines := readEvent()
	require.Len(t, lines, 2)
	assert.Equal(t, "event: data_changed", lines[0])

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &env))
	assert.Equal(t, EventDataChanged, env.Event)
	assert.Equal(t, []any{map[string]any{"id_kapal": float64(9)}}, env.Data)
}

func TestRealtimeHealth(t *testing.T) {
	s := newRealtimeServer(t)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["subscribers"])
}

func TestWebSocket_InboundMessagesAreLogged(t *testing.T) {
	logger, logs := testutil.CaptureLogger()
	hub := NewHub(testutil.NopLogger())
	srv := httptest.NewServer(NewHandler(hub, logger))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.Message.Send(conn, "halo dari klien"))

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "halo dari klien")
	}, 2*time.Second, 10*time.Millisecond)
}
