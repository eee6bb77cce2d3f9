package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/ledger"
	"github.com/osse101/ItemLedger_Go/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector and the audit log
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)

	ledger.NewAuditLog(nil).Register(bus)
	slog.Info(LogMsgAuditLogRegistered)

	return nil
}
