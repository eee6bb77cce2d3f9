package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	ID         string      `json:"id"`
	Version    string      `json:"version"` // Event schema version (e.g., "1.0")
	Type       Type        `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
	Metadata   Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Ledger event types
const (
	ItemMinted        Type = domain.EventTypeItemMinted
	ItemTransferred   Type = domain.EventTypeItemTransferred
	ItemEquipped      Type = domain.EventTypeItemEquipped
	ItemUnequipped    Type = domain.EventTypeItemUnequipped
	ItemLocked        Type = domain.EventTypeItemLocked
	ItemUnlocked      Type = domain.EventTypeItemUnlocked
	PauseChanged      Type = domain.EventTypePauseChanged
	OperationRejected Type = domain.EventTypeOperationRejected
)

// AllLedgerTypes lists every event type the ledger publishes.
var AllLedgerTypes = []Type{
	ItemMinted,
	ItemTransferred,
	ItemEquipped,
	ItemUnequipped,
	ItemLocked,
	ItemUnlocked,
	PauseChanged,
	OperationRejected,
}

// Typed event payloads for type safety

// ItemMintedPayloadV1 is the typed payload for item.minted
type ItemMintedPayloadV1 struct {
	TokenID  domain.TokenID   `json:"token_id"`
	Owner    domain.Principal `json:"owner"`
	Metadata string           `json:"metadata"`
	MintedBy domain.Principal `json:"minted_by"`
}

// ItemTransferredPayloadV1 is the typed payload for item.transferred
type ItemTransferredPayloadV1 struct {
	TokenID domain.TokenID   `json:"token_id"`
	From    domain.Principal `json:"from"`
	To      domain.Principal `json:"to"`
}

// ItemFlagPayloadV1 is shared by the equip/unequip and lock/unlock events.
// Actor is the owner for equip events and the admin for lock events.
type ItemFlagPayloadV1 struct {
	TokenID domain.TokenID   `json:"token_id"`
	Actor   domain.Principal `json:"actor"`
}

// PauseChangedPayloadV1 is the typed payload for registry.pause_changed
type PauseChangedPayloadV1 struct {
	Paused bool             `json:"paused"`
	Actor  domain.Principal `json:"actor"`
}

// OperationRejectedPayloadV1 is the typed payload for operation.rejected
type OperationRejectedPayloadV1 struct {
	Operation string           `json:"operation"`
	Caller    domain.Principal `json:"caller"`
	TokenID   domain.TokenID   `json:"token_id,omitempty"`
	Code      domain.ErrorCode `json:"code"`
	Reason    string           `json:"reason"`
}

// Type-safe event constructors

func newEvent(eventType Type, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Version:    EventSchemaVersion,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// NewItemMintedEvent creates a new item.minted event
func NewItemMintedEvent(tokenID domain.TokenID, owner domain.Principal, metadata string, mintedBy domain.Principal) Event {
	return newEvent(ItemMinted, ItemMintedPayloadV1{
		TokenID:  tokenID,
		Owner:    owner,
		Metadata: metadata,
		MintedBy: mintedBy,
	})
}

// NewItemTransferredEvent creates a new item.transferred event
func NewItemTransferredEvent(tokenID domain.TokenID, from, to domain.Principal) Event {
	return newEvent(ItemTransferred, ItemTransferredPayloadV1{
		TokenID: tokenID,
		From:    from,
		To:      to,
	})
}

// NewItemFlagEvent creates one of the equip/unequip/lock/unlock events
func NewItemFlagEvent(eventType Type, tokenID domain.TokenID, actor domain.Principal) Event {
	return newEvent(eventType, ItemFlagPayloadV1{
		TokenID: tokenID,
		Actor:   actor,
	})
}

// NewPauseChangedEvent creates a new registry.pause_changed event
func NewPauseChangedEvent(paused bool, actor domain.Principal) Event {
	return newEvent(PauseChanged, PauseChangedPayloadV1{
		Paused: paused,
		Actor:  actor,
	})
}

// NewOperationRejectedEvent creates a new operation.rejected event
func NewOperationRejectedEvent(operation string, caller domain.Principal, tokenID domain.TokenID, code domain.ErrorCode) Event {
	return newEvent(OperationRejected, OperationRejectedPayloadV1{
		Operation: operation,
		Caller:    caller,
		TokenID:   tokenID,
		Code:      code,
		Reason:    code.Label(),
	})
}

// WithRequestID returns a copy of the event tagged with the originating request id
func (e Event) WithRequestID(requestID string) Event {
	if requestID == "" {
		return e
	}
	md := make(Metadata, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[MetadataKeyRequestID] = requestID
	e.Metadata = md
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers. Handlers run synchronously in
// subscription order; every handler runs even if an earlier one fails.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
