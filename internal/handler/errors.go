package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// Client-facing messages. Internal error text is never echoed.
const (
	ErrMsgInternal      = "internal server error"
	ErrMsgUnavailable   = "service unavailable"
	ErrMsgInvalidParams = "invalid request parameters"
)

// Log messages
const (
	LogMsgEncodeFailed    = "Failed to encode JSON response"
	LogMsgWriteFailed     = "Failed to write response buffer"
	LogMsgReadinessFailed = "Readiness check failed"
	LogMsgUnexpectedError = "Unexpected error serving request"
)

// statusForCode maps a registry error code onto an HTTP status
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.ErrTokenNotFound:
		return http.StatusNotFound
	case domain.ErrNotAdmin, domain.ErrNotOwner:
		return http.StatusForbidden
	case domain.ErrItemLocked, domain.ErrPaused:
		return http.StatusConflict
	case domain.ErrBurnDestination:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// mapServiceError maps non-registry errors to a status and client message
func mapServiceError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrLedgerStopping):
		return http.StatusServiceUnavailable, ErrMsgUnavailable
	case errors.Is(err, domain.ErrInvalidTokenID), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidParams
	default:
		return http.StatusInternalServerError, ErrMsgInternal
	}
}
