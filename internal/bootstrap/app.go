package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ItemLedger_Go/internal/config"
	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/handler"
	"github.com/osse101/ItemLedger_Go/internal/ledger"
	"github.com/osse101/ItemLedger_Go/internal/logger"
	"github.com/osse101/ItemLedger_Go/internal/registry"
	"github.com/osse101/ItemLedger_Go/internal/scheduler"
	"github.com/osse101/ItemLedger_Go/internal/server"
	"github.com/osse101/ItemLedger_Go/internal/sse"
	"github.com/osse101/ItemLedger_Go/internal/worker"
)

// App holds the wired application components
type App struct {
	Registry  *registry.Registry
	Ledger    ledger.Service
	Bus       event.Bus
	Publisher *event.ResilientPublisher
	EventPool *worker.Pool
	Feed      *sse.Hub
	Scheduler *scheduler.Scheduler
	Server    *server.Server
}

// Build wires every component from cfg. The event pool, the feed hub and the
// status scheduler are started; the HTTP server is not.
func Build(cfg *config.Config) (*App, error) {
	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		return nil, err
	}
	if err := RegisterEventHandlers(bus); err != nil {
		return nil, fmt.Errorf("failed to register event handlers: %w", err)
	}

	pool := worker.NewPool(cfg.EventWorkers, cfg.EventQueueSize)
	pool.Start()

	reg := registry.New(domain.Principal(cfg.AdminPrincipal))
	svc := ledger.NewService(reg, ledger.Options{
		Publisher:  publisher,
		Dispatcher: pool,
		CacheSize:  cfg.InventoryCacheSize,
		CacheTTL:   cfg.InventoryCacheTTL,
	})

	feed := sse.NewHub()
	feed.Subscribe(bus)
	feed.Start()

	sched := scheduler.New(pool)
	sched.Schedule(JobStatusSnapshot, cfg.StatusInterval, scheduler.StatusSnapshotJob(svc))

	srv := server.NewServer(server.Options{
		Port:        cfg.Port,
		Reader:      svc,
		Checkers:    []handler.HealthChecker{svc},
		ServiceName: logger.DefaultServiceName,
		Version:     cfg.Version,
		Environment: cfg.Environment,
		Feed:        feed,
	})

	slog.Info(LogMsgLedgerReady, "admin", cfg.AdminPrincipal, "event_workers", cfg.EventWorkers)

	return &App{
		Registry:  reg,
		Ledger:    svc,
		Bus:       bus,
		Publisher: publisher,
		EventPool: pool,
		Feed:      feed,
		Scheduler: sched,
		Server:    srv,
	}, nil
}
