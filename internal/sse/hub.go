// Package sse streams ledger events to HTTP clients as server-sent events.
package sse

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/osse101/ItemLedger_Go/internal/event"
)

// Event is one message on the stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Client represents a connected SSE client
type Client struct {
	ID           string
	EventChannel chan Event
	EventFilter  map[string]bool // nil means all events
}

// Hub fans events out to connected clients. Slow clients miss events rather
// than stalling the broadcaster.
type Hub struct {
	clients    map[string]*Client
	broadcast  chan Event
	register   chan *Client
	unregister chan string
	mu         sync.RWMutex
	shutdown   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start starts the hub's broadcast loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop shuts down the hub and closes every client channel, ending their
// streams. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for _, client := range h.clients {
			close(client.EventChannel)
		}
		h.clients = make(map[string]*Client)
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, ok := h.clients[clientID]; ok {
				close(client.EventChannel)
				delete(h.clients, clientID)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				if client.EventFilter != nil && !client.EventFilter[evt.Type] {
					continue
				}
				select {
				case client.EventChannel <- evt:
				default:
					slog.Debug(LogMsgClientLagging, "client_id", client.ID, "event_type", evt.Type)
				}
			}
			h.mu.RUnlock()

		case <-h.shutdown:
			return
		}
	}
}

// Register adds a client. It returns false once the hub is stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case <-h.shutdown:
		return false
	default:
	}
	select {
	case h.register <- client:
		return true
	case <-h.shutdown:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues evt for every interested client
func (h *Hub) Broadcast(evt Event) {
	select {
	case h.broadcast <- evt:
	default:
		slog.Warn(LogMsgEventDropped, "event_type", evt.Type)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscribe attaches the hub to every ledger event type on bus
func (h *Hub) Subscribe(bus event.Bus) {
	for _, t := range event.AllLedgerTypes {
		bus.Subscribe(t, h.handleEvent)
	}
	slog.Info(LogMsgSubscriberReady, "types", len(event.AllLedgerTypes))
}

func (h *Hub) handleEvent(_ context.Context, evt event.Event) error {
	requestID, _ := evt.GetMetadataValue(event.MetadataKeyRequestID).(string)
	h.Broadcast(Event{
		ID:        evt.ID,
		Type:      string(evt.Type),
		Timestamp: evt.OccurredAt.Unix(),
		RequestID: requestID,
		Payload:   evt.Payload,
	})
	return nil
}

// FormatSSEMessage formats an event for transmission
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	// id: <id>\nevent: <type>\ndata: <json>\n\n
	msg := make([]byte, 0, len(data)+len(evt.ID)+len(evt.Type)+24)
	if evt.ID != "" {
		msg = append(msg, "id: "+evt.ID+"\n"...)
	}
	msg = append(msg, "event: "+evt.Type+"\n"...)
	msg = append(msg, "data: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg, nil
}
