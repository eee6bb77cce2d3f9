package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/registry"
)

// MockRegistryReader mocks RegistryReader
type MockRegistryReader struct {
	mock.Mock
}

func (m *MockRegistryReader) Item(ctx context.Context, tokenID domain.TokenID) (domain.Item, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *MockRegistryReader) Inventory(ctx context.Context, owner domain.Principal) ([]domain.Item, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *MockRegistryReader) Status(ctx context.Context) registry.Status {
	args := m.Called(ctx)
	return args.Get(0).(registry.Status)
}

func newTestRouter(reader RegistryReader) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", NewRegistryHandler(reader).Routes)
	return r
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHandleStatus(t *testing.T) {
	reader := &MockRegistryReader{}
	reader.On("Status", mock.Anything).Return(registry.Status{
		Admin:       "STADMIN",
		Paused:      true,
		LastTokenID: 4,
		ItemCount:   4,
	})

	w := serve(newTestRouter(reader), "/api/v1/registry")

	assert.Equal(t, http.StatusOK, w.Code)
	var res registry.Result[registry.Status]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	status, ok := res.Value()
	require.True(t, ok)
	assert.True(t, status.Paused)
	assert.Equal(t, domain.TokenID(4), status.LastTokenID)
}

func TestHandleGetItem(t *testing.T) {
	item := domain.Item{TokenID: 1, Owner: "STPLAYER1", Metadata: "Sword of Truth"}

	t.Run("found", func(t *testing.T) {
		reader := &MockRegistryReader{}
		reader.On("Item", mock.Anything, domain.TokenID(1)).Return(item, nil)

		w := serve(newTestRouter(reader), "/api/v1/items/1")

		assert.Equal(t, http.StatusOK, w.Code)
		var res registry.Result[domain.Item]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		got, ok := res.Value()
		require.True(t, ok)
		assert.Equal(t, item, got)
	})

	t.Run("not found", func(t *testing.T) {
		reader := &MockRegistryReader{}
		reader.On("Item", mock.Anything, domain.TokenID(99)).Return(domain.Item{}, domain.ErrTokenNotFound)

		w := serve(newTestRouter(reader), "/api/v1/items/99")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), `"error":102`)
		assert.Contains(t, w.Body.String(), domain.ErrMsgTokenNotFound)
	})

	for _, raw := range []string{"abc", "0", "-1", "18446744073709551616"} {
		t.Run("malformed "+raw, func(t *testing.T) {
			reader := &MockRegistryReader{}

			w := serve(newTestRouter(reader), "/api/v1/items/"+raw)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), ErrMsgInvalidParams)
			reader.AssertNotCalled(t, "Item", mock.Anything, mock.Anything)
		})
	}

	t.Run("unexpected error", func(t *testing.T) {
		reader := &MockRegistryReader{}
		reader.On("Item", mock.Anything, domain.TokenID(2)).Return(domain.Item{}, assert.AnError)

		w := serve(newTestRouter(reader), "/api/v1/items/2")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestHandleOwnerItems(t *testing.T) {
	t.Run("items", func(t *testing.T) {
		items := []domain.Item{
			{TokenID: 1, Owner: "STPLAYER1", Metadata: "a"},
			{TokenID: 3, Owner: "STPLAYER1", Metadata: "c"},
		}
		reader := &MockRegistryReader{}
		reader.On("Inventory", mock.Anything, domain.Principal("STPLAYER1")).Return(items, nil)

		w := serve(newTestRouter(reader), "/api/v1/owners/STPLAYER1/items")

		assert.Equal(t, http.StatusOK, w.Code)
		var res registry.Result[[]domain.Item]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		got, ok := res.Value()
		require.True(t, ok)
		assert.Equal(t, items, got)
	})

	t.Run("empty inventory is an empty list", func(t *testing.T) {
		reader := &MockRegistryReader{}
		reader.On("Inventory", mock.Anything, domain.Principal("STNOBODY")).Return([]domain.Item{}, nil)

		w := serve(newTestRouter(reader), "/api/v1/owners/STNOBODY/items")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"value":[]}`, w.Body.String())
	})

	t.Run("whitespace principal", func(t *testing.T) {
		reader := &MockRegistryReader{}

		w := serve(newTestRouter(reader), "/api/v1/owners/ST%20PLAYER/items")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"principal"`)
		reader.AssertNotCalled(t, "Inventory", mock.Anything, mock.Anything)
	})

	t.Run("too long", func(t *testing.T) {
		reader := &MockRegistryReader{}
		long := make([]byte, 129)
		for i := range long {
			long[i] = 'A'
		}

		w := serve(newTestRouter(reader), "/api/v1/owners/"+string(long)+"/items")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ledger stopping", func(t *testing.T) {
		reader := &MockRegistryReader{}
		reader.On("Inventory", mock.Anything, domain.Principal("STPLAYER1")).Return(nil, domain.ErrLedgerStopping)

		w := serve(newTestRouter(reader), "/api/v1/owners/STPLAYER1/items")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code   domain.ErrorCode
		status int
	}{
		{domain.ErrNotAdmin, http.StatusForbidden},
		{domain.ErrBurnDestination, http.StatusUnprocessableEntity},
		{domain.ErrTokenNotFound, http.StatusNotFound},
		{domain.ErrNotOwner, http.StatusForbidden},
		{domain.ErrItemLocked, http.StatusConflict},
		{domain.ErrPaused, http.StatusConflict},
		{domain.ErrorCode(999), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, statusForCode(tt.code), "code %d", tt.code)
	}
}

func TestRespondCode_UnknownCode(t *testing.T) {
	rec := httptest.NewRecorder()
	respondCode(rec, domain.ErrorCode(999))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"`+ErrMsgInternal+`"}`, rec.Body.String())
}
