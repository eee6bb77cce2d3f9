package ledger

import (
	"context"
	"log/slog"

	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/logger"
)

// AuditLog writes every ledger event to the structured log
type AuditLog struct {
	log *slog.Logger
}

// NewAuditLog creates an audit subscriber. A nil logger uses slog.Default at
// handling time.
func NewAuditLog(log *slog.Logger) *AuditLog {
	return &AuditLog{log: log}
}

// Register subscribes to all ledger event types
func (a *AuditLog) Register(bus event.Bus) {
	for _, t := range event.AllLedgerTypes {
		bus.Subscribe(t, a.HandleEvent)
	}
}

// HandleEvent logs evt. Rejections are logged at warn.
func (a *AuditLog) HandleEvent(ctx context.Context, evt event.Event) error {
	log := a.log
	if log == nil {
		log = logger.FromContext(ctx)
	}

	attrs := []any{
		"event_id", evt.ID,
		"event_type", evt.Type,
		"occurred_at", evt.OccurredAt,
		"payload", evt.Payload,
	}
	if rid, ok := evt.GetMetadataValue(event.MetadataKeyRequestID).(string); ok {
		attrs = append(attrs, logger.AttrKeyRequestID, rid)
	}

	if evt.Type == event.OperationRejected {
		log.WarnContext(ctx, LogMsgAuditRejected, attrs...)
		return nil
	}
	log.InfoContext(ctx, LogMsgAuditEvent, attrs...)
	return nil
}
