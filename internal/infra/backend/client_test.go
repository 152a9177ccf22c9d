package backend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gabapcia/txflow/internal/bridge"
	"github.com/gabapcia/txflow/internal/confirmation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var outcome = confirmation.Outcome{
	Type:   "transfer",
	TxHash: "0xabc",
	Amount: "10",
	Token:  "USDC",
	Chain:  "base",
	From:   "0x1111111111111111111111111111111111111111",
	To:     "0x000000000000000000000000000000000000dEaD",
	Status: confirmation.StatusCompleted,
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestClient_Report(t *testing.T) {
	t.Run("should post the outcome with the bearer token", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/transactions", r.URL.Path)
			assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{
				"type":        "transfer",
				"txHash":      "0xabc",
				"amount":      "10",
				"token":       "USDC",
				"chain":       "base",
				"fromAddress": "0x1111111111111111111111111111111111111111",
				"toAddress":   "0x000000000000000000000000000000000000dEaD",
				"status":      "completed",
			}, body)

			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		assert.NoError(t, NewClient(srv.URL+"/", token).Report(t.Context(), outcome))
	})

	t.Run("should fail once without retrying on server errors", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "database unavailable", http.StatusInternalServerError)
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "opaque-token").Report(t.Context(), outcome)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.ErrorContains(t, err, "500 database unavailable")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("should not send without a session", func(t *testing.T) {
		err := NewClient("http://127.0.0.1:1", "").Report(t.Context(), outcome)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("should not send with an expired session", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		token := signedToken(t, now.Add(-time.Minute))

		err := NewClient(srv.URL, token, WithClock(func() time.Time { return now })).Report(t.Context(), outcome)
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.Zero(t, calls.Load())
	})

	t.Run("should fail when the request times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		err := NewClient(srv.URL, "opaque-token", WithTimeout(20*time.Millisecond)).Report(t.Context(), outcome)
		assert.Error(t, err)
	})
}

func TestClient_Bridge(t *testing.T) {
	req := bridge.Request{
		FromNetwork: "solana",
		ToNetwork:   "base",
		Token:       "USDC",
		Amount:      "25",
		Recipient:   "0x000000000000000000000000000000000000dEaD",
	}

	t.Run("should return the bridged amount", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/bridge", r.URL.Path)

			var body bridge.Request
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, req, body)

			_, _ = w.Write([]byte(`{"amount":"24.9","txHash":"5xyz"}`))
		}))
		defer srv.Close()

		res, err := NewClient(srv.URL, "opaque-token").Bridge(t.Context(), req)
		require.NoError(t, err)
		assert.Equal(t, bridge.Result{Amount: "24.9", TxHash: "5xyz"}, res)
	})

	t.Run("should surface rejected bridges", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "insufficient liquidity", http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "opaque-token").Bridge(t.Context(), req)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.ErrorContains(t, err, "insufficient liquidity")
	})
}
