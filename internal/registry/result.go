package registry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// Result is the two-variant outcome of a registry operation: either a value or
// an error code, never both. The zero Result is Ok with the zero value.
type Result[V any] struct {
	value V
	code  domain.ErrorCode
}

// Ok wraps a successful value.
func Ok[V any](v V) Result[V] {
	return Result[V]{value: v}
}

// ErrUnknownCode is returned when a failure is built from a code outside 100-105.
var ErrUnknownCode = errors.New("unknown error code")

// Fail wraps an error code. Only the six registry codes are accepted; anything
// else would encode as a success or as JSON UnmarshalJSON rejects.
func Fail[V any](code domain.ErrorCode) (Result[V], error) {
	if !code.Valid() {
		return Result[V]{}, fmt.Errorf("%w: %d", ErrUnknownCode, int(code))
	}
	return Result[V]{code: code}, nil
}

// From converts a (value, error) pair returned by a Registry method.
// Errors that carry no ErrorCode are not registry outcomes and are rejected.
func From[V any](v V, err error) (Result[V], error) {
	if err == nil {
		return Ok(v), nil
	}
	code, ok := domain.CodeOf(err)
	if !ok {
		return Result[V]{}, fmt.Errorf("not a registry outcome: %w", err)
	}
	return Fail[V](code)
}

// IsOk reports whether the result carries a value.
func (r Result[V]) IsOk() bool {
	return r.code == 0
}

// Value returns the success value and true, or the zero value and false.
func (r Result[V]) Value() (V, bool) {
	if !r.IsOk() {
		var zero V
		return zero, false
	}
	return r.value, true
}

// Code returns the error code and true, or 0 and false on success.
func (r Result[V]) Code() (domain.ErrorCode, bool) {
	return r.code, !r.IsOk()
}

// Unwrap converts back into Go's (value, error) convention.
func (r Result[V]) Unwrap() (V, error) {
	if !r.IsOk() {
		var zero V
		return zero, r.code
	}
	return r.value, nil
}

type resultWire[V any] struct {
	Value   *V                `json:"value,omitempty"`
	Error   *domain.ErrorCode `json:"error,omitempty"`
	Message string            `json:"message,omitempty"`
}

// MarshalJSON renders {"value": v} or {"error": code, "message": text}.
func (r Result[V]) MarshalJSON() ([]byte, error) {
	if r.IsOk() {
		v := r.value
		return json.Marshal(resultWire[V]{Value: &v})
	}
	code := r.code
	return json.Marshal(resultWire[V]{Error: &code, Message: code.Error()})
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (r *Result[V]) UnmarshalJSON(data []byte) error {
	var wire resultWire[V]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Error != nil:
		res, err := Fail[V](*wire.Error)
		if err != nil {
			return err
		}
		*r = res
	case wire.Value != nil:
		*r = Ok(*wire.Value)
	default:
		return fmt.Errorf("result has neither value nor error")
	}
	return nil
}
