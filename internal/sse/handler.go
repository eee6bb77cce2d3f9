package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ItemLedger_Go/internal/logger"
)

// Handler returns an HTTP handler streaming hub events. The optional
// ?types=item.minted,item.transferred query limits the stream.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		rc := http.NewResponseController(w)

		// Streams outlive the server's write timeout.
		_ = rc.SetWriteDeadline(time.Time{})

		var eventTypes []string
		if filterParam := r.URL.Query().Get(QueryParamTypes); filterParam != "" {
			for _, t := range strings.Split(filterParam, ",") {
				if t = strings.TrimSpace(t); t != "" {
					eventTypes = append(eventTypes, t)
				}
			}
		}

		client := &Client{
			ID:           uuid.NewString(),
			EventChannel: make(chan Event, ClientEventBuffer),
		}
		if len(eventTypes) > 0 {
			client.EventFilter = make(map[string]bool, len(eventTypes))
			for _, t := range eventTypes {
				client.EventFilter[t] = true
			}
		}
		if !hub.Register(client) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		log.Info(LogMsgClientConnected, "client_id", client.ID, "filters", eventTypes)
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		send := func(evt Event) bool {
			msg, err := FormatSSEMessage(evt)
			if err != nil {
				log.Error(LogMsgWriteError, "error", err, "event_type", evt.Type)
				return true
			}
			if _, err := w.Write(msg); err != nil {
				return false
			}
			if err := rc.Flush(); err != nil {
				log.Warn(LogMsgStreamUnsupported, "error", err)
				return false
			}
			return true
		}

		if !send(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "filters": eventTypes},
		}) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-client.EventChannel:
				if !ok {
					// hub stopped
					return
				}
				if !send(evt) {
					return
				}

			case <-ticker.C:
				if !send(Event{Type: EventTypeKeepalive, Timestamp: time.Now().Unix()}) {
					return
				}
			}
		}
	}
}
