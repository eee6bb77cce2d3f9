package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/ledger"
	"github.com/osse101/ItemLedger_Go/internal/scheduler"
	"github.com/osse101/ItemLedger_Go/internal/server"
	"github.com/osse101/ItemLedger_Go/internal/sse"
	"github.com/osse101/ItemLedger_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil components are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Feed               *sse.Hub
	Scheduler          *scheduler.Scheduler
	Ledger             ledger.Service
	EventPool          *worker.Pool
	ResilientPublisher *event.ResilientPublisher
}

// Components returns the shutdown set for a built App
func (a *App) Components() ShutdownComponents {
	return ShutdownComponents{
		Server:             a.Server,
		Feed:               a.Feed,
		Scheduler:          a.Scheduler,
		Ledger:             a.Ledger,
		EventPool:          a.EventPool,
		ResilientPublisher: a.Publisher,
	}
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Event feed (end open streams)
// 3. Scheduler (no new snapshot jobs)
// 4. Ledger (reject further mutations, readiness goes to 503)
// 5. Event pool (deliver every event already dispatched)
// 6. Resilient publisher (flush retries, close the dead-letter file)
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Feed != nil {
		slog.Info(LogMsgStoppingFeed)
		components.Feed.Stop()
	}

	if components.Scheduler != nil {
		slog.Info(LogMsgStoppingScheduler)
		components.Scheduler.Stop()
	}

	if components.Ledger != nil {
		slog.Info(LogMsgShuttingDownLedger)
		if err := components.Ledger.Shutdown(ctx); err != nil {
			slog.Error(LogMsgLedgerShutdownFailed, "error", err)
		}
	}

	if components.EventPool != nil {
		slog.Info(LogMsgDrainingEventPool)
		drainPool(ctx, components.EventPool)
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

// drainPool stops the pool, giving up waiting when ctx expires. The workers
// keep draining in the background in that case.
func drainPool(ctx context.Context, pool *worker.Pool) {
	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		slog.Warn(LogMsgEventPoolDrainTimeout, "error", ctx.Err())
	}
}
