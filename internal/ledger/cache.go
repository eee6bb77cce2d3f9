package ledger

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// cachedInventory is an owner's token id list as of one ownership version
type cachedInventory struct {
	SchemaVersion    string
	OwnershipVersion uint64
	TokenIDs         []domain.TokenID
	CachedAt         time.Time
}

// inventoryCache keeps owner inventories in an expirable LRU. An entry is only
// served while the registry ownership version still matches the one it was
// computed at, so a result stored after a concurrent transfer is never served.
type inventoryCache struct {
	lru *expirable.LRU[domain.Principal, *cachedInventory]
}

func newInventoryCache(size int, ttl time.Duration) *inventoryCache {
	if size <= 0 {
		size = DefaultInventoryCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultInventoryCacheTTL
	}
	return &inventoryCache{
		lru: expirable.NewLRU[domain.Principal, *cachedInventory](size, nil, ttl),
	}
}

// Get returns the cached ids for owner if the entry was computed at version.
// Entries from another version are evicted.
func (c *inventoryCache) Get(owner domain.Principal, version uint64) ([]domain.TokenID, bool) {
	entry, found := c.lru.Get(owner)
	if !found {
		return nil, false
	}
	if entry.SchemaVersion != InventoryCacheSchemaVersion || entry.OwnershipVersion != version {
		c.lru.Remove(owner)
		return nil, false
	}
	return entry.TokenIDs, true
}

// Set stores ids for owner computed at version
func (c *inventoryCache) Set(owner domain.Principal, version uint64, ids []domain.TokenID) {
	c.lru.Add(owner, &cachedInventory{
		SchemaVersion:    InventoryCacheSchemaVersion,
		OwnershipVersion: version,
		TokenIDs:         ids,
		CachedAt:         time.Now(),
	})
}

// Invalidate drops the entries for the given principals
func (c *inventoryCache) Invalidate(owners ...domain.Principal) {
	for _, owner := range owners {
		c.lru.Remove(owner)
	}
}

// Len returns the number of cached owners
func (c *inventoryCache) Len() int {
	return c.lru.Len()
}

// Clear removes all entries
func (c *inventoryCache) Clear() {
	c.lru.Purge()
}
