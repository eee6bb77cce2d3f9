// Package ledger wraps the registry state machine with the operational
// concerns around it: request-scoped logging, metrics, event publication and a
// cached owner inventory view. Registry errors pass through unchanged.
package ledger

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/event"
	"github.com/osse101/ItemLedger_Go/internal/logger"
	"github.com/osse101/ItemLedger_Go/internal/metrics"
	"github.com/osse101/ItemLedger_Go/internal/registry"
	"github.com/osse101/ItemLedger_Go/internal/worker"
)

// Publisher delivers ledger events. event.ResilientPublisher satisfies it.
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Dispatcher runs jobs off the caller's goroutine. worker.Pool satisfies it.
type Dispatcher interface {
	Enqueue(job worker.Job) error
}

// Service is the context-aware entry point to the registry
type Service interface {
	SetPaused(ctx context.Context, caller domain.Principal, value bool) (bool, error)
	Mint(ctx context.Context, caller, to domain.Principal, metadata string) (domain.TokenID, error)
	Transfer(ctx context.Context, caller domain.Principal, tokenID domain.TokenID, to domain.Principal) error
	Equip(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error
	Unequip(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error
	Lock(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error
	Unlock(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error

	// Item returns the item or domain.ErrTokenNotFound
	Item(ctx context.Context, tokenID domain.TokenID) (domain.Item, error)
	// Inventory returns the items currently owned by owner, ordered by token id
	Inventory(ctx context.Context, owner domain.Principal) ([]domain.Item, error)
	Status(ctx context.Context) registry.Status

	CheckHealth(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Options configures optional collaborators. A nil Publisher disables events
// and a nil Dispatcher publishes on the caller's goroutine.
type Options struct {
	Publisher  Publisher
	Dispatcher Dispatcher
	CacheSize  int
	CacheTTL   time.Duration
}

type service struct {
	reg        *registry.Registry
	publisher  Publisher
	dispatcher Dispatcher
	cache      *inventoryCache
	stopping   atomic.Bool
}

// NewService creates a new ledger service around reg
func NewService(reg *registry.Registry, opts Options) Service {
	return &service{
		reg:        reg,
		publisher:  opts.Publisher,
		dispatcher: opts.Dispatcher,
		cache:      newInventoryCache(opts.CacheSize, opts.CacheTTL),
	}
}

func (s *service) SetPaused(ctx context.Context, caller domain.Principal, value bool) (bool, error) {
	if err := s.checkRunning(); err != nil {
		return false, err
	}
	start := time.Now()
	paused, err := s.reg.SetPaused(caller, value)
	if err != nil {
		s.reject(ctx, domain.OpSetPaused, caller, 0, start, err)
		return false, err
	}
	s.succeed(domain.OpSetPaused, start)

	logger.FromContext(ctx).Info(LogMsgPauseChanged, "paused", paused, "caller", caller)
	s.publish(ctx, event.NewPauseChangedEvent(paused, caller))
	return paused, nil
}

func (s *service) Mint(ctx context.Context, caller, to domain.Principal, metadata string) (domain.TokenID, error) {
	if err := s.checkRunning(); err != nil {
		return 0, err
	}
	start := time.Now()
	tokenID, err := s.reg.Mint(caller, to, metadata)
	if err != nil {
		s.reject(ctx, domain.OpMint, caller, 0, start, err)
		return 0, err
	}
	s.succeed(domain.OpMint, start)
	s.cache.Invalidate(to)

	logger.FromContext(ctx).Info(LogMsgItemMinted, "token_id", tokenID, "owner", to)
	s.publish(ctx, event.NewItemMintedEvent(tokenID, to, metadata, caller))
	return tokenID, nil
}

func (s *service) Transfer(ctx context.Context, caller domain.Principal, tokenID domain.TokenID, to domain.Principal) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	start := time.Now()
	if err := s.reg.Transfer(caller, tokenID, to); err != nil {
		s.reject(ctx, domain.OpTransfer, caller, tokenID, start, err)
		return err
	}
	s.succeed(domain.OpTransfer, start)
	// Only the owner can transfer, so caller was the previous owner.
	s.cache.Invalidate(caller, to)

	logger.FromContext(ctx).Info(LogMsgItemTransferred, "token_id", tokenID, "from", caller, "to", to)
	s.publish(ctx, event.NewItemTransferredEvent(tokenID, caller, to))
	return nil
}

func (s *service) Equip(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error {
	return s.flag(ctx, domain.OpEquip, event.ItemEquipped, caller, tokenID, s.reg.Equip)
}

func (s *service) Unequip(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error {
	return s.flag(ctx, domain.OpUnequip, event.ItemUnequipped, caller, tokenID, s.reg.Unequip)
}

func (s *service) Lock(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error {
	return s.flag(ctx, domain.OpLock, event.ItemLocked, caller, tokenID, s.reg.Lock)
}

func (s *service) Unlock(ctx context.Context, caller domain.Principal, tokenID domain.TokenID) error {
	return s.flag(ctx, domain.OpUnlock, event.ItemUnlocked, caller, tokenID, s.reg.Unlock)
}

// flag runs one of the equip/unequip/lock/unlock operations
func (s *service) flag(ctx context.Context, op string, evtType event.Type, caller domain.Principal, tokenID domain.TokenID, fn func(domain.Principal, domain.TokenID) error) error {
	if err := s.checkRunning(); err != nil {
		return err
	}
	start := time.Now()
	if err := fn(caller, tokenID); err != nil {
		s.reject(ctx, op, caller, tokenID, start, err)
		return err
	}
	s.succeed(op, start)

	msg := LogMsgItemEquipChanged
	if op == domain.OpLock || op == domain.OpUnlock {
		msg = LogMsgItemLockChanged
	}
	logger.FromContext(ctx).Info(msg, "operation", op, "token_id", tokenID, "caller", caller)
	s.publish(ctx, event.NewItemFlagEvent(evtType, tokenID, caller))
	return nil
}

func (s *service) Item(ctx context.Context, tokenID domain.TokenID) (domain.Item, error) {
	item, ok := s.reg.Item(tokenID)
	if !ok {
		return domain.Item{}, domain.ErrTokenNotFound
	}
	return item, nil
}

func (s *service) Inventory(ctx context.Context, owner domain.Principal) ([]domain.Item, error) {
	log := logger.FromContext(ctx)

	ids, ok := s.cache.Get(owner, s.reg.OwnershipVersion())
	if ok {
		log.Debug(LogMsgInventoryCacheHit, "owner", owner, "count", len(ids))
	} else {
		var version uint64
		ids, version = s.reg.ItemsOwnedBy(owner)
		s.cache.Set(owner, version, ids)
	}

	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		item, found := s.reg.Item(id)
		// A transfer may land between the id lookup and here.
		if !found || item.Owner != owner {
			log.Debug(LogMsgInventoryCacheStale, "owner", owner, "token_id", id)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *service) Status(ctx context.Context) registry.Status {
	return s.reg.Status()
}

func (s *service) CheckHealth(ctx context.Context) error {
	return s.checkRunning()
}

// Shutdown stops accepting mutations. Event delivery is drained by the owner
// of the dispatcher and publisher.
func (s *service) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgShuttingDown)
	s.stopping.Store(true)
	s.cache.Clear()
	log.Info(LogMsgShutdownComplete)
	return nil
}

func (s *service) checkRunning() error {
	if s.stopping.Load() {
		return domain.ErrLedgerStopping
	}
	return nil
}

func (s *service) succeed(op string, start time.Time) {
	metrics.ObserveOperation(op, true, time.Since(start).Seconds())
}

func (s *service) reject(ctx context.Context, op string, caller domain.Principal, tokenID domain.TokenID, start time.Time, err error) {
	metrics.ObserveOperation(op, false, time.Since(start).Seconds())

	code, _ := domain.CodeOf(err)
	logger.FromContext(ctx).Info(LogMsgOperationRejected,
		"operation", op, "caller", caller, "token_id", tokenID, "code", int(code), "reason", code.Label())
	s.publish(ctx, event.NewOperationRejectedEvent(op, caller, tokenID, code))
}

// publish hands evt to the publisher via the dispatcher. The dispatch context
// keeps the request id but not the caller's cancellation.
func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher == nil {
		return
	}
	evt = evt.WithRequestID(logger.GetRequestID(ctx))
	pubCtx := context.WithoutCancel(ctx)

	if s.dispatcher != nil {
		err := s.dispatcher.Enqueue(worker.JobFunc(func(context.Context) error {
			s.publisher.PublishWithRetry(pubCtx, evt)
			return nil
		}))
		if err == nil {
			return
		}
		logger.FromContext(ctx).Warn(LogMsgDispatchFallback, "event_type", evt.Type, "error", err)
	}
	s.publisher.PublishWithRetry(pubCtx, evt)
}
