// Package registry implements the item registry state machine: who may mint,
// move, equip and freeze items, and the order in which each rule is checked.
//
// Every operation runs its whole check-then-mutate sequence under one mutex, so
// a call never observes a partially applied concurrent call. The first failing
// precondition wins and leaves the registry untouched.
package registry

import (
	"sort"
	"sync"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// Status is a consistent snapshot of the registry's global state.
type Status struct {
	Admin            domain.Principal `json:"admin"`
	Paused           bool             `json:"paused"`
	LastTokenID      domain.TokenID   `json:"last_token_id"`
	ItemCount        int              `json:"item_count"`
	OwnershipVersion uint64           `json:"ownership_version"`
}

// Registry holds the admin principal, the pause switch, the id counter and the item table.
type Registry struct {
	mu sync.Mutex

	admin       domain.Principal
	paused      bool
	lastTokenID domain.TokenID
	items       map[domain.TokenID]*domain.Item

	// ownershipVersion moves on every mint and transfer.
	ownershipVersion uint64
}

// New creates an empty, unpaused registry administered by admin.
func New(admin domain.Principal) *Registry {
	return &Registry{
		admin: admin,
		items: make(map[domain.TokenID]*domain.Item),
	}
}

// IsAdmin reports whether caller is the registry admin.
func (r *Registry) IsAdmin(caller domain.Principal) bool {
	return caller == r.admin
}

// SetPaused sets the global pause switch and returns the new value.
func (r *Registry) SetPaused(caller domain.Principal, value bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.IsAdmin(caller) {
		return false, domain.ErrNotAdmin
	}
	r.paused = value
	return value, nil
}

// Mint creates a new item owned by to and returns its token id.
// Authorization is checked before the destination. Pause does not apply.
func (r *Registry) Mint(caller, to domain.Principal, metadata string) (domain.TokenID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.IsAdmin(caller) {
		return 0, domain.ErrNotAdmin
	}
	if to.IsBurn() {
		return 0, domain.ErrBurnDestination
	}

	r.lastTokenID++
	id := r.lastTokenID
	r.items[id] = &domain.Item{
		TokenID:  id,
		Owner:    to,
		Metadata: metadata,
	}
	r.ownershipVersion++
	return id, nil
}

// Transfer moves an item from its owner to to. Checks run in this order:
// paused, existence, ownership, lock, destination. Equipped and locked flags
// are carried over unchanged.
func (r *Registry) Transfer(caller domain.Principal, tokenID domain.TokenID, to domain.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.ownedItemLocked(caller, tokenID)
	if err != nil {
		return err
	}
	if item.Locked {
		return domain.ErrItemLocked
	}
	if to.IsBurn() {
		return domain.ErrBurnDestination
	}

	item.Owner = to
	r.ownershipVersion++
	return nil
}

// Equip marks an item as equipped. Locked items may still be equipped.
func (r *Registry) Equip(caller domain.Principal, tokenID domain.TokenID) error {
	return r.setEquipped(caller, tokenID, true)
}

// Unequip clears the equipped flag.
func (r *Registry) Unequip(caller domain.Principal, tokenID domain.TokenID) error {
	return r.setEquipped(caller, tokenID, false)
}

// Lock freezes custody of an item. Admin authorization is checked before existence.
func (r *Registry) Lock(caller domain.Principal, tokenID domain.TokenID) error {
	return r.setLocked(caller, tokenID, true)
}

// Unlock lifts a custody freeze.
func (r *Registry) Unlock(caller domain.Principal, tokenID domain.TokenID) error {
	return r.setLocked(caller, tokenID, false)
}

func (r *Registry) setEquipped(caller domain.Principal, tokenID domain.TokenID, equipped bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, err := r.ownedItemLocked(caller, tokenID)
	if err != nil {
		return err
	}
	item.Equipped = equipped
	return nil
}

func (r *Registry) setLocked(caller domain.Principal, tokenID domain.TokenID, locked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.IsAdmin(caller) {
		return domain.ErrNotAdmin
	}
	item, ok := r.items[tokenID]
	if !ok {
		return domain.ErrTokenNotFound
	}
	item.Locked = locked
	return nil
}

// ownedItemLocked runs the player-facing guard shared by transfer, equip and
// unequip: paused, then existence, then ownership. r.mu must be held.
func (r *Registry) ownedItemLocked(caller domain.Principal, tokenID domain.TokenID) (*domain.Item, error) {
	if r.paused {
		return nil, domain.ErrPaused
	}
	item, ok := r.items[tokenID]
	if !ok {
		return nil, domain.ErrTokenNotFound
	}
	if item.Owner != caller {
		return nil, domain.ErrNotOwner
	}
	return item, nil
}

// Admin returns the fixed admin principal.
func (r *Registry) Admin() domain.Principal {
	return r.admin
}

// Paused reports the pause switch.
func (r *Registry) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// LastTokenID returns the most recently assigned id, or 0 before the first mint.
func (r *Registry) LastTokenID() domain.TokenID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastTokenID
}

// Len returns the number of items in the registry.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Item returns a copy of the item with the given id.
func (r *Registry) Item(tokenID domain.TokenID) (domain.Item, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[tokenID]
	if !ok {
		return domain.Item{}, false
	}
	return *item, true
}

// ItemsOwnedBy returns the ids held by owner in ascending order, together with
// the ownership version the answer was computed at.
func (r *Registry) ItemsOwnedBy(owner domain.Principal) ([]domain.TokenID, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]domain.TokenID, 0)
	for id, item := range r.items {
		if item.Owner == owner {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, r.ownershipVersion
}

// OwnershipVersion returns a counter that changes whenever any item changes hands.
func (r *Registry) OwnershipVersion() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ownershipVersion
}

// Status returns the global state in a single consistent read.
func (r *Registry) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	return Status{
		Admin:            r.admin,
		Paused:           r.paused,
		LastTokenID:      r.lastTokenID,
		ItemCount:        len(r.items),
		OwnershipVersion: r.ownershipVersion,
	}
}
