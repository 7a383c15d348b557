package execution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	t.Run("Quote And Build", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/quote", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var req QuoteRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "pool-1", req.Pool)
			assert.Equal(t, int64(1_000_000), req.Amount)

			json.NewEncoder(w).Encode(QuoteResponse{
				Transaction:           "base64tx",
				ExpectedCounterAmount: 42,
				Price:                 0.000001,
			})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		resp, err := client.QuoteAndBuild(context.Background(), QuoteRequest{
			Pool:        "pool-1",
			Side:        "buy",
			Amount:      1_000_000,
			SlippageBps: 100,
			Trader:      "TraderA",
		})
		require.NoError(t, err)
		assert.Equal(t, "base64tx", resp.Transaction)
		assert.Equal(t, int64(42), resp.ExpectedCounterAmount)
	})

	t.Run("Client Error Is Not Retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		client := NewClient(server.URL)
		_, err := client.Submit(context.Background(), SubmitRequest{Transaction: "tx"})
		assert.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("Server Error Is Retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(SubmitResponse{TxRef: "sig123", Confirmed: true})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		resp, err := client.Submit(context.Background(), SubmitRequest{Transaction: "tx"})
		require.NoError(t, err)
		assert.True(t, resp.Confirmed)
		assert.Equal(t, "sig123", resp.TxRef)
		assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
	})

	t.Run("Context Cancellation Stops Retrying", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		client := NewClient(server.URL)
		_, err := client.Transfer(ctx, TransferRequest{From: "A", To: "B", Amount: 1})
		assert.Error(t, err)
	})

	t.Run("Withdraw Path Includes Pool", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/pools/pool-9/withdraw-all", r.URL.Path)
			json.NewEncoder(w).Encode(WithdrawResponse{
				Withdrawn:  true,
				BaseAmount: 50_000_000_000,
			})
		}))
		defer server.Close()

		client := NewClient(server.URL)
		resp, err := client.WithdrawAllLiquidity(context.Background(), "pool-9")
		require.NoError(t, err)
		assert.True(t, resp.Withdrawn)
		assert.Equal(t, int64(50_000_000_000), resp.BaseAmount)
	})
}
