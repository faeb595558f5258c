package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCreateOrder_Success(t *testing.T) {
	var gotBody gatewayOrderRequest
	var gotAuthOK bool

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		gotAuthOK = ok && user == "key-id" && pass == "key-secret"

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, map[string]any{"id": "order_gw123", "status": "created"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key-id", "key-secret", 5*time.Second)

	id, err := client.CreateOrder(context.Background(), 69900, "INR", "order_1700000000000",
		map[string]string{"user_id": "u1", "items_count": "1"})
	require.NoError(t, err)

	assert.Equal(t, "order_gw123", id)
	assert.True(t, gotAuthOK)
	assert.Equal(t, int64(69900), gotBody.Amount)
	assert.Equal(t, "INR", gotBody.Currency)
	assert.Equal(t, "order_1700000000000", gotBody.Receipt)
	assert.Equal(t, "u1", gotBody.Notes["user_id"])
}

func TestClientCreateOrder_GatewayRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "bad", "creds", 5*time.Second)

	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientCreateOrder_MissingOrderID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"status": "created"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", 5*time.Second)

	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing order id")
}

func TestClientCreateOrder_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, map[string]any{"id": "too-late"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", "s", 50*time.Millisecond)

	_, err := client.CreateOrder(context.Background(), 100, "INR", "r1", nil)
	require.Error(t, err)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
