package domain

// Event type constants used across the application for event bus subscriptions
// and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "item.minted")
const (
	// EventTypeItemMinted is published when the admin creates a new item
	EventTypeItemMinted = "item.minted"

	// EventTypeItemTransferred is published when an owner moves an item to another principal
	EventTypeItemTransferred = "item.transferred"

	EventTypeItemEquipped   = "item.equipped"
	EventTypeItemUnequipped = "item.unequipped"

	// EventTypeItemLocked is published when the admin freezes custody of an item
	EventTypeItemLocked   = "item.locked"
	EventTypeItemUnlocked = "item.unlocked"

	// EventTypePauseChanged is published on every successful pause toggle, including no-op toggles
	EventTypePauseChanged = "registry.pause_changed"

	// EventTypeOperationRejected is published when any operation fails a precondition
	EventTypeOperationRejected = "operation.rejected"
)

// Operation names, used for event payloads, metric labels and log fields.
const (
	OpSetPaused = "set_paused"
	OpMint      = "mint"
	OpTransfer  = "transfer"
	OpEquip     = "equip"
	OpUnequip   = "unequip"
	OpLock      = "lock"
	OpUnlock    = "unlock"
)
