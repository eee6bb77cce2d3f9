package domain

// Principal is an opaque, pre-authenticated identity for an actor (admin or player).
// The registry only ever compares principals for equality.
type Principal string

// BurnPrincipal is the reserved identity that can never hold or receive an item.
const BurnPrincipal Principal = "SP000000000000000000002Q6VF78"

// IsBurn reports whether p is the reserved burn principal.
func (p Principal) IsBurn() bool {
	return p == BurnPrincipal
}

// String implements fmt.Stringer
func (p Principal) String() string {
	return string(p)
}
