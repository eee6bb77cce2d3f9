package ledger

import "time"

// Cache defaults, used when the configured values are not positive
const (
	DefaultInventoryCacheSize = 1024
	DefaultInventoryCacheTTL  = 5 * time.Minute
)

// InventoryCacheSchemaVersion is bumped when the cached entry layout changes
// so stale entries from an older layout are discarded.
const InventoryCacheSchemaVersion = "1.0"

// Log messages
const (
	LogMsgOperationRejected   = "Ledger operation rejected"
	LogMsgItemMinted          = "Item minted"
	LogMsgItemTransferred     = "Item transferred"
	LogMsgItemEquipChanged    = "Item equip state changed"
	LogMsgItemLockChanged     = "Item lock state changed"
	LogMsgPauseChanged        = "Registry pause flag set"
	LogMsgDispatchFallback    = "Event pool unavailable, publishing inline"
	LogMsgShuttingDown        = "Ledger service shutting down"
	LogMsgShutdownComplete    = "Ledger service shutdown complete"
	LogMsgInventoryCacheHit   = "Inventory served from cache"
	LogMsgInventoryCacheStale = "Inventory cache entry stale"
)

// Audit log messages
const (
	LogMsgAuditEvent    = "Ledger event"
	LogMsgAuditRejected = "Ledger operation rejected by registry"
)
