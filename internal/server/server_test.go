package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ItemLedger_Go/internal/domain"
	"github.com/osse101/ItemLedger_Go/internal/handler"
	"github.com/osse101/ItemLedger_Go/internal/ledger"
	"github.com/osse101/ItemLedger_Go/internal/registry"
	"github.com/osse101/ItemLedger_Go/internal/sse"
)

func newTestServer(t *testing.T) (http.Handler, ledger.Service) {
	t.Helper()
	svc := ledger.NewService(registry.New("STADMIN"), ledger.Options{})
	ctx := context.Background()
	_, err := svc.Mint(ctx, "STADMIN", "STPLAYER1", "Sword of Truth")
	require.NoError(t, err)
	_, err = svc.Mint(ctx, "STADMIN", "STPLAYER1", "Shield")
	require.NoError(t, err)

	return NewRouter(Options{
		Reader:      svc,
		Checkers:    []handler.HealthChecker{svc},
		ServiceName: "item-ledger",
		Version:     "test",
		Environment: "test",
	}), svc
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Endpoints(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/healthz", http.StatusOK, `"status":"ok"`},
		{"/readyz", http.StatusOK, `"status":"ok"`},
		{"/version", http.StatusOK, `"service":"item-ledger"`},
		{"/metrics", http.StatusOK, "ledger_operations_total"},
		{"/api/v1/registry", http.StatusOK, `"last_token_id":2`},
		{"/api/v1/items/1", http.StatusOK, `"metadata":"Sword of Truth"`},
		{"/api/v1/items/3", http.StatusNotFound, `"error":102`},
		{"/api/v1/items/zero", http.StatusBadRequest, ""},
		{"/api/v1/owners/STPLAYER1/items", http.StatusOK, `"metadata":"Shield"`},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(h, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRouter_OwnerItemsShape(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(h, "/api/v1/owners/STPLAYER1/items")
	require.Equal(t, http.StatusOK, rec.Code)

	var res registry.Result[[]domain.Item]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	items, ok := res.Value()
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, domain.TokenID(1), items[0].TokenID)
	assert.Equal(t, domain.TokenID(2), items[1].TokenID)
}

func TestRouter_ReadyzAfterShutdown(t *testing.T) {
	h, svc := newTestServer(t)
	require.NoError(t, svc.Shutdown(context.Background()))

	rec := get(h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.ErrMsgLedgerStopping)

	// Reads still work while draining.
	assert.Equal(t, http.StatusOK, get(h, "/api/v1/items/1").Code)
}

func TestRouter_RequestID(t *testing.T) {
	h, _ := newTestServer(t)

	rec := get(h, "/api/v1/registry")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/registry", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := SecurityHeadersMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := get(h, "/")

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for header, expected := range expectedHeaders {
		assert.Equal(t, expected, rec.Header().Get(header), header)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Now()
	l := NewRateLimiter(3, time.Minute)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "limits are per ip")

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("10.0.0.1"), "window resets")
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimitMiddleware(NewRateLimiter(1, time.Minute))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	assert.Equal(t, http.StatusOK, get(h, "/").Code)
	rec := get(h, "/")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), ErrMsgTooManyRequests))
}

func TestRouter_EventFeed(t *testing.T) {
	svc := ledger.NewService(registry.New("STADMIN"), ledger.Options{})
	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()

	// Served through the full middleware chain so flushing must reach the
	// underlying writer.
	srv := httptest.NewServer(NewRouter(Options{Reader: svc, Feed: hub}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []string
	sc := bufio.NewScanner(resp.Body)
	for len(types) < 2 && sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "event: ") {
			continue
		}
		types = append(types, strings.TrimPrefix(line, "event: "))
		if len(types) == 1 {
			require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
			hub.Broadcast(sse.Event{ID: "e1", Type: "item.minted"})
		}
	}

	assert.Equal(t, []string{sse.EventTypeConnected, "item.minted"}, types)
}

func TestRouter_NoFeedConfigured(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, get(h, "/api/v1/events").Code)
}
