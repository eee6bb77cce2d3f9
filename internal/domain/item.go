package domain

import "strconv"

// TokenID identifies an item. IDs are assigned at mint time starting at 1 and are never reused.
type TokenID uint64

// String implements fmt.Stringer
func (id TokenID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseTokenID parses a decimal token id. Zero is rejected since no item ever carries it.
func ParseTokenID(s string) (TokenID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidTokenID
	}
	if v == 0 {
		return 0, ErrInvalidTokenID
	}
	return TokenID(v), nil
}

// Item is a uniquely identified asset held in the registry.
//   - Owner: current custodian, never the burn principal
//   - Equipped: gameplay flag, owner-controlled
//   - Locked: custody freeze, admin-controlled; blocks transfer only
//   - Metadata: opaque, fixed at mint
type Item struct {
	TokenID  TokenID   `json:"token_id"`
	Owner    Principal `json:"owner"`
	Equipped bool      `json:"equipped"`
	Locked   bool      `json:"locked"`
	Metadata string    `json:"metadata"`
}
