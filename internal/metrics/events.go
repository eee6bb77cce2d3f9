package metrics

import (
	"context"

	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/logger"
)

// EventMetricsCollector subscribes to ledger events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all ledger events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.AllLedgerTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.ItemMinted:
		ItemsMinted.Inc()

	case event.ItemTransferred:
		Transfers.Inc()

	case event.PauseChanged:
		p, err := event.DecodePayload[event.PauseChangedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadMismatch, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		if p.Paused {
			Paused.Set(1)
		} else {
			Paused.Set(0)
		}

	case event.OperationRejected:
		p, err := event.DecodePayload[event.OperationRejectedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadMismatch, "type", evt.Type, "error", err)
			EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
			return nil
		}
		Rejections.WithLabelValues(p.Operation, p.Reason).Inc()

	case event.ItemEquipped, event.ItemUnequipped, event.ItemLocked, event.ItemUnlocked:
		// counted by EventsPublished only

	default:
		log.Debug(LogMsgUnknownEventType, "type", evt.Type)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
