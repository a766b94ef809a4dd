package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL)
	require.NoError(t, err)
	return client, srv
}

func TestGetJSONCachesByPath(t *testing.T) {
	var hits int32
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"name":"Vampire Cape"}]}`))
	})

	ctx := context.Background()
	var first, second []map[string]string
	require.NoError(t, client.GetJSON(ctx, "/api/costumes", &first))
	require.NoError(t, client.GetJSON(ctx, "/api/costumes", &second))

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second read must come from cache")
	assert.Equal(t, first, second)
}

func TestGetJSONDistinctQueriesAreDistinctEntries(t *testing.T) {
	var hits int32
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"success":true,"data":[]}`))
	})

	ctx := context.Background()
	require.NoError(t, client.GetJSON(ctx, "/api/costumes?theme=horror", nil))
	require.NoError(t, client.GetJSON(ctx, "/api/costumes?theme=fantasy", nil))

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestPlainTextSuccessReturnedVerbatim(t *testing.T) {
	var hits int32
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("pong"))
	})

	ctx := context.Background()
	body, err := client.GetText(ctx, "/ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", body)

	// The text body is cached like any other success
	body, err = client.GetText(ctx, "/ping")
	require.NoError(t, err)
	assert.Equal(t, "pong", body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestErrorStringsCarryStatusAndMessage(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"Item not found"}}`))
	})

	err := client.GetJSON(context.Background(), "/api/items/missing", nil)
	require.Error(t, err)
	assert.Equal(t, "404: Item not found", err.Error())
}

func TestUnauthorizedErrorKeepsSuffix(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"error":{"code":"UNAUTHORIZED","message":"Not authenticated"}}`))
	})

	err := client.GetJSON(context.Background(), "/api/admin/auth/user", nil)
	require.Error(t, err)
	assert.Equal(t, "401: Not authenticated Unauthorized", err.Error())
	assert.True(t, IsUnauthorized(err))
}

func TestConflictDetailsExposed(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"error":{"code":"CONFLICT","message":"Some items are no longer available","details":{"unavailable_items":["Dragon Costume"]}}}`))
	})

	err := client.PostJSON(context.Background(), "/api/bookings", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Details, "unavailable_items")
}

func TestBookingCreationInvalidatesListings(t *testing.T) {
	var listingHits int32
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			atomic.AddInt32(&listingHits, 1)
			w.Write([]byte(`{"success":true,"data":[]}`))
		default:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true,"data":{"id":"b1"}}`))
		}
	})

	ctx := context.Background()
	require.NoError(t, client.GetJSON(ctx, "/api/costumes", nil))
	require.NoError(t, client.GetJSON(ctx, "/api/costumes", nil))
	assert.Equal(t, int32(1), atomic.LoadInt32(&listingHits))

	require.NoError(t, client.PostJSON(ctx, "/api/bookings", map[string]string{}, nil))

	// Listing must be refetched after the booking changed availability
	require.NoError(t, client.GetJSON(ctx, "/api/costumes", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&listingHits))
}

func TestCollectionPrefix(t *testing.T) {
	cases := map[string]string{
		"/api/admin/items/3f2c/image":   "/api/admin/items",
		"/api/admin/bookings/9a/status": "/api/admin/bookings",
		"/api/bookings":                 "/api/bookings",
		"/api/admin/categories/7":       "/api/admin/categories",
	}
	for in, want := range cases {
		assert.Equal(t, want, collectionPrefix(in), in)
	}
}
