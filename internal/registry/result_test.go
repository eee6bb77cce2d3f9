package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

func TestResult_Ok(t *testing.T) {
	res := Ok(domain.TokenID(1))

	assert.True(t, res.IsOk())
	v, ok := res.Value()
	assert.True(t, ok)
	assert.Equal(t, domain.TokenID(1), v)

	_, isErr := res.Code()
	assert.False(t, isErr)

	v, err := res.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, domain.TokenID(1), v)
}

func TestResult_Fail(t *testing.T) {
	res, err := Fail[bool](domain.ErrItemLocked)
	require.NoError(t, err)

	assert.False(t, res.IsOk())
	_, ok := res.Value()
	assert.False(t, ok)

	code, isErr := res.Code()
	assert.True(t, isErr)
	assert.Equal(t, domain.ErrItemLocked, code)

	_, err = res.Unwrap()
	assert.Equal(t, domain.ErrItemLocked, err)
}

func TestResult_FailRejectsUnknownCodes(t *testing.T) {
	for _, code := range []domain.ErrorCode{0, 99, 106, 999} {
		res, err := Fail[int](code)
		assert.ErrorIs(t, err, ErrUnknownCode, "code %d", int(code))

		// The zero Result is a success, so it must never be mistaken for a failure.
		assert.True(t, res.IsOk())
	}

	_, err := From(0, fmt.Errorf("wrapped: %w", domain.ErrorCode(999)))
	assert.ErrorIs(t, err, ErrUnknownCode)
}

func TestResult_From(t *testing.T) {
	r := New(testAdmin)

	id, mintErr := r.Mint(testAdmin, testPlayer1, "Sword of Truth")
	res, err := From(id, mintErr)
	require.NoError(t, err)
	v, ok := res.Value()
	require.True(t, ok)
	assert.Equal(t, domain.TokenID(1), v)

	id, mintErr = r.Mint(testPlayer1, testPlayer2, "Boots")
	res, err = From(id, mintErr)
	require.NoError(t, err)
	code, isErr := res.Code()
	require.True(t, isErr)
	assert.Equal(t, domain.ErrNotAdmin, code)

	_, err = From(0, errors.New("disk on fire"))
	assert.Error(t, err)
}

func mustFail[V any](t *testing.T, code domain.ErrorCode) Result[V] {
	t.Helper()
	res, err := Fail[V](code)
	require.NoError(t, err)
	return res
}

func TestResult_JSON(t *testing.T) {
	tests := []struct {
		name     string
		marshal  func() ([]byte, error)
		expected string
	}{
		{"mint value", func() ([]byte, error) { return json.Marshal(Ok(domain.TokenID(1))) }, `{"value":1}`},
		{"bool value", func() ([]byte, error) { return json.Marshal(Ok(true)) }, `{"value":true}`},
		{"false value", func() ([]byte, error) { return json.Marshal(Ok(false)) }, `{"value":false}`},
		{"error", func() ([]byte, error) { return json.Marshal(mustFail[bool](t, domain.ErrPaused)) },
			`{"error":105,"message":"registry is paused"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.marshal()
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestResult_UnmarshalJSON(t *testing.T) {
	var ok Result[domain.TokenID]
	require.NoError(t, json.Unmarshal([]byte(`{"value":7}`), &ok))
	v, isOk := ok.Value()
	require.True(t, isOk)
	assert.Equal(t, domain.TokenID(7), v)

	var failed Result[bool]
	require.NoError(t, json.Unmarshal([]byte(`{"error":104}`), &failed))
	code, isErr := failed.Code()
	require.True(t, isErr)
	assert.Equal(t, domain.ErrItemLocked, code)

	var bad Result[bool]
	assert.Error(t, json.Unmarshal([]byte(`{"error":42}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}
