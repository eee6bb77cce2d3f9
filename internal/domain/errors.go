package domain

import (
	"errors"
	"strconv"
)

// ErrorCode is the closed set of rule violations a registry operation can report.
// The numeric values are part of the public contract and never change.
type ErrorCode int

const (
	ErrNotAdmin        ErrorCode = 100
	ErrBurnDestination ErrorCode = 101
	ErrTokenNotFound   ErrorCode = 102
	ErrNotOwner        ErrorCode = 103
	ErrItemLocked      ErrorCode = 104
	ErrPaused          ErrorCode = 105
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgNotAdmin        = "caller is not the admin"
	ErrMsgBurnDestination = "destination is the burn principal"
	ErrMsgTokenNotFound   = "token not found"
	ErrMsgNotOwner        = "caller is not the item owner"
	ErrMsgItemLocked      = "item is locked"
	ErrMsgPaused          = "registry is paused"

	ErrMsgUnknownCode    = "unknown error code"
	ErrMsgInvalidTokenID = "invalid token id"
	ErrMsgInvalidInput   = "invalid input"
	ErrMsgLedgerStopping = "ledger is shutting down"
)

// ErrorCodes lists every code in ascending order.
var ErrorCodes = []ErrorCode{
	ErrNotAdmin,
	ErrBurnDestination,
	ErrTokenNotFound,
	ErrNotOwner,
	ErrItemLocked,
	ErrPaused,
}

// Error implements the error interface
func (c ErrorCode) Error() string {
	switch c {
	case ErrNotAdmin:
		return ErrMsgNotAdmin
	case ErrBurnDestination:
		return ErrMsgBurnDestination
	case ErrTokenNotFound:
		return ErrMsgTokenNotFound
	case ErrNotOwner:
		return ErrMsgNotOwner
	case ErrItemLocked:
		return ErrMsgItemLocked
	case ErrPaused:
		return ErrMsgPaused
	}
	return ErrMsgUnknownCode + " " + strconv.Itoa(int(c))
}

// Valid reports whether c is one of the six defined codes.
func (c ErrorCode) Valid() bool {
	return c >= ErrNotAdmin && c <= ErrPaused
}

// Label returns a stable snake_case name, used for metric labels and log fields.
func (c ErrorCode) Label() string {
	switch c {
	case ErrNotAdmin:
		return "not_admin"
	case ErrBurnDestination:
		return "burn_destination"
	case ErrTokenNotFound:
		return "token_not_found"
	case ErrNotOwner:
		return "not_owner"
	case ErrItemLocked:
		return "item_locked"
	case ErrPaused:
		return "paused"
	}
	return "unknown"
}

// CodeOf extracts the ErrorCode carried by err, if any.
func CodeOf(err error) (ErrorCode, bool) {
	var code ErrorCode
	if errors.As(err, &code) {
		return code, true
	}
	return 0, false
}

// Infrastructure errors. These never come out of the registry itself.
var (
	ErrInvalidTokenID = errors.New(ErrMsgInvalidTokenID)
	ErrInvalidInput   = errors.New(ErrMsgInvalidInput)
	ErrLedgerStopping = errors.New(ErrMsgLedgerStopping)
)
