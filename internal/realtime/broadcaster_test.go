package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/testutil"
)

func receiveEnvelope(t *testing.T, sub *Subscriber) map[string]any {
	t.Helper()
	select {
	case msg := <-sub.Messages():
		var env map[string]any
		require.NoError(t, json.Unmarshal(msg, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive message")
		return nil
	}
}

func newBroadcasterWithSubscriber(t *testing.T) (*Broadcaster, *Subscriber) {
	t.Helper()
	hub := NewHub(testutil.NopLogger())
	return NewBroadcaster(hub, testutil.NopLogger()), openSubscriber(t, hub)
}

func TestBroadcaster_ShipCreated(t *testing.T) {
	broadcaster, sub := newBroadcasterWithSubscriber(t)

	registered := time.Date(2024, 3, 1, 8, 30, 0, 123000000, time.UTC)
	broadcaster.ShipCreated(model.Ship{
		ID:           7,
		ShipFields:   model.ShipFields{Name: "KM Sinar", Type: "Cargo", CargoCapacity: 5000},
		RegisteredAt: registered,
	})

	env := receiveEnvelope(t, sub)
	assert.Equal(t, "data_changed", env["event"])
	assert.Equal(t, "Data kapal telah diperbarui.", env["message"])

	data, ok := env["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, map[string]any{
		"id_kapal":         float64(7),
		"nama_kapal":       "KM Sinar",
		"jenis_kapal":      "Cargo",
		"kapasitas_muatan": float64(5000),
		"waktu_terdaftar":  "2024-03-01T08:30:00.123Z",
	}, data[0])
}

func TestBroadcaster_ShipUpdatedOmitsRegistrationTime(t *testing.T) {
	broadcaster, sub := newBroadcasterWithSubscriber(t)

	broadcaster.ShipUpdated(7, model.ShipFields{Name: "KM Baru", Type: "Tanker", CargoCapacity: 7000.5})

	env := receiveEnvelope(t, sub)
	data := env["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, map[string]any{
		"id_kapal":         float64(7),
		"nama_kapal":       "KM Baru",
		"jenis_kapal":      "Tanker",
		"kapasitas_muatan": 7000.5,
	}, data[0])
}

func TestBroadcaster_ShipDeletedCarriesOnlyID(t *testing.T) {
	broadcaster, sub := newBroadcasterWithSubscriber(t)

	broadcaster.ShipDeleted(7)

	env := receiveEnvelope(t, sub)
	assert.Equal(t, "data_changed", env["event"])
	assert.Equal(t, []any{map[string]any{"id_kapal": float64(7)}}, env["data"])
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	broadcaster := NewBroadcaster(hub, testutil.NopLogger())

	assert.NotPanics(t, func() {
		broadcaster.ShipDeleted(1)
	})
}
