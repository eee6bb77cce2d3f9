package sse

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/testing/leaktest"
)

func newClient(id string, filter ...string) *Client {
	c := &Client{ID: id, EventChannel: make(chan Event, ClientEventBuffer)}
	if len(filter) > 0 {
		c.EventFilter = map[string]bool{}
		for _, f := range filter {
			c.EventFilter[f] = true
		}
	}
	return c
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastRespectsFilter(t *testing.T) {
	leaktest.Run(t, func() {
		hub := NewHub()
		hub.Start()
		defer hub.Stop()

		all := newClient("all")
		minted := newClient("minted", string(event.ItemMinted))
		require.True(t, hub.Register(all))
		require.True(t, hub.Register(minted))
		waitForClients(t, hub, 2)

		hub.Broadcast(Event{ID: "e1", Type: string(event.ItemTransferred)})
		hub.Broadcast(Event{ID: "e2", Type: string(event.ItemMinted)})

		assert.Equal(t, "e1", (<-all.EventChannel).ID)
		assert.Equal(t, "e2", (<-all.EventChannel).ID)
		assert.Equal(t, "e2", (<-minted.EventChannel).ID)
		assert.Empty(t, minted.EventChannel)
	})
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c := newClient("c1")
	require.True(t, hub.Register(c))
	waitForClients(t, hub, 1)

	hub.Unregister("c1")
	waitForClients(t, hub, 0)

	_, ok := <-c.EventChannel
	assert.False(t, ok, "channel closed on unregister")
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	hub.Start()

	c := newClient("c1")
	require.True(t, hub.Register(c))
	waitForClients(t, hub, 1)

	hub.Stop()
	hub.Stop()

	_, ok := <-c.EventChannel
	assert.False(t, ok)
	assert.False(t, hub.Register(newClient("late")))
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_SubscribeForwardsLedgerEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	hub.Subscribe(bus)

	c := newClient("c1")
	require.True(t, hub.Register(c))
	waitForClients(t, hub, 1)

	evt := event.Event{
		ID:         "evt-1",
		Type:       event.ItemMinted,
		OccurredAt: time.Unix(1700000000, 0),
		Payload:    map[string]interface{}{"token_id": 1},
		Metadata:   event.Metadata{event.MetadataKeyRequestID: "req-9"},
	}
	require.NoError(t, bus.Publish(context.Background(), evt))

	select {
	case got := <-c.EventChannel:
		assert.Equal(t, "evt-1", got.ID)
		assert.Equal(t, string(event.ItemMinted), got.Type)
		assert.Equal(t, int64(1700000000), got.Timestamp)
		assert.Equal(t, "req-9", got.RequestID)
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "e1", Type: "item.minted", Timestamp: 5, Payload: map[string]int{"token_id": 1}})
	require.NoError(t, err)

	text := string(msg)
	require.True(t, strings.HasPrefix(text, "id: e1\nevent: item.minted\ndata: "))
	require.True(t, strings.HasSuffix(text, "\n\n"))

	data := strings.TrimSuffix(strings.SplitN(text, "data: ", 2)[1], "\n\n")
	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(data), &decoded))
	assert.Equal(t, "item.minted", decoded.Type)
	assert.Equal(t, int64(5), decoded.Timestamp)
}

func TestFormatSSEMessage_NoID(t *testing.T) {
	msg, err := FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "event: keepalive\n"))
}
