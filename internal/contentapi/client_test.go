package contentapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk.io/app/internal/config"
	"orderdesk.io/app/internal/modules/orders"
)

func newTestStore(t *testing.T, h http.HandlerFunc) *OrderStore {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	c, err := NewClient(config.ContentConfig{
		BaseURL:    server.URL,
		Dataset:    "production",
		APIVersion: "2023-05-03",
		Token:      "secret-token",
	})
	require.NoError(t, err)
	return NewOrderStore(c)
}

func TestOrderStore_List(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2023-05-03/data/query/production", r.URL.Path)
		assert.Equal(t, OrdersQuery, r.URL.Query().Get("query"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ms":3,"result":[
			{"_id":"A","firstName":"Ada","phone":5550100,"total":99.5,"status":"pending",
			 "cartItems":[{"title":"Desk","image":"image-abc-200x100-png"}]},
			{"_id":"B","firstName":"Bob","status":null,"cartItems":null}
		]}`)
	})

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "A", got[0].ID)
	assert.Equal(t, orders.StatusPending, got[0].Status)
	assert.Equal(t, []orders.CartItem{{Title: "Desk", Image: "image-abc-200x100-png"}}, got[0].CartItems)

	assert.Equal(t, "B", got[1].ID)
	assert.Equal(t, orders.StatusPending, got[1].NormalizedStatus())
	assert.NotNil(t, got[1].CartItems)
}

func TestOrderStore_ListError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"description":"Unauthorized - Session not found","type":"httpError"}}`)
	})

	_, err := store.List(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Session not found")
}

func TestOrderStore_SetStatus(t *testing.T) {
	var got map[string][]map[string]any
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2023-05-03/data/mutate/production", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("returnIds"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = io.WriteString(w, `{"transactionId":"tx1","results":[{"id":"A","operation":"update"}]}`)
	})

	require.NoError(t, store.SetStatus(context.Background(), "A", orders.StatusDispatch))

	require.Len(t, got["mutations"], 1)
	patch := got["mutations"][0]["patch"].(map[string]any)
	assert.Equal(t, "A", patch["id"])
	assert.Equal(t, map[string]any{"status": "dispatch"}, patch["set"])
}

func TestOrderStore_SetStatusNotFound(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":{"description":"The mutation(s) failed","type":"mutationError",
			"items":[{"error":{"type":"documentNotFoundError","id":"Z"}}]}}`)
	})

	err := store.SetStatus(context.Background(), "Z", orders.StatusSuccess)
	assert.ErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestOrderStore_Delete(t *testing.T) {
	var got map[string][]map[string]any
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"transactionId":"tx2","results":[{"id":"B","operation":"delete"}]}`)
	})

	require.NoError(t, store.Delete(context.Background(), "B"))
	assert.Equal(t, map[string]any{"id": "B"}, got["mutations"][0]["delete"])
}

func TestOrderStore_DeleteMissing(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"transactionId":"tx3","results":[]}`)
	})

	assert.ErrorIs(t, store.Delete(context.Background(), "B"), orders.ErrOrderNotFound)
}

func TestOrderStore_ServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := store.Delete(context.Background(), "B")
	require.Error(t, err)
	assert.NotErrorIs(t, err, orders.ErrOrderNotFound)
}

func TestNewClient_DefaultHost(t *testing.T) {
	c, err := NewClient(config.ContentConfig{ProjectID: "abc123", Dataset: "production", APIVersion: "v2021-10-21"})
	require.NoError(t, err)

	u := c.endpoint("query")
	assert.Equal(t, "https://abc123.api.sanity.io/v2021-10-21/data/query/production", u.String())
}
