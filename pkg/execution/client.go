// Package execution is the HTTP client for the external AMM execution
// service. The service owns swap/pool math, transaction building and
// submission; this side treats every call as opaque, fallible and safe to
// retry at least once.
package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client represents an execution service API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new execution service client. The endpoint comes
// from EXECUTION_SERVICE_URL unless given explicitly.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("EXECUTION_SERVICE_URL")
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				IdleConnTimeout:       10 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

// QuoteRequest asks for a quote plus a built, submittable transaction.
type QuoteRequest struct {
	Pool        string `json:"pool"`
	Side        string `json:"side"`
	Amount      int64  `json:"amount"`
	SlippageBps int    `json:"slippage_bps"`
	Trader      string `json:"trader"`
}

// QuoteResponse carries the built transaction and the expected amount of
// the counter asset.
type QuoteResponse struct {
	Transaction           string  `json:"transaction"`
	ExpectedCounterAmount int64   `json:"expected_counter_amount"`
	Price                 float64 `json:"price"`
}

// SubmitRequest submits a previously built transaction.
type SubmitRequest struct {
	Transaction string `json:"transaction"`
}

// SubmitResponse reports the confirmed transaction reference.
type SubmitResponse struct {
	TxRef     string `json:"tx_ref"`
	Confirmed bool   `json:"confirmed"`
}

// CreatePoolRequest creates a liquidity pool seeded with the given
// amounts.
type CreatePoolRequest struct {
	Mint        string `json:"mint"`
	BaseAmount  int64  `json:"base_amount"`
	TokenAmount uint64 `json:"token_amount"`
	Creator     string `json:"creator"`
}

// CreatePoolResponse carries the new pool's reference.
type CreatePoolResponse struct {
	PoolRef string `json:"pool_ref"`
}

// WithdrawResponse reports the liquidity pulled from a pool. An already
// empty pool returns zero amounts with Withdrawn=false, which makes the
// call safe to repeat during finalization recovery.
type WithdrawResponse struct {
	Withdrawn   bool     `json:"withdrawn"`
	BaseAmount  int64    `json:"base_amount"`
	TokenAmount uint64   `json:"token_amount"`
	Ops         []string `json:"ops"`
}

// TransferRequest moves base currency between platform accounts.
type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// TransferResponse carries the transfer op reference.
type TransferResponse struct {
	OpRef string `json:"op_ref"`
}

// QuoteAndBuild fetches a quote and a built transaction for a swap.
func (c *Client) QuoteAndBuild(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := c.post(ctx, "/v1/quote", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit sends a built transaction for execution and waits for
// confirmation.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.post(ctx, "/v1/submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreatePool creates a permanent liquidity pool.
func (c *Client) CreatePool(ctx context.Context, req CreatePoolRequest) (*CreatePoolResponse, error) {
	var resp CreatePoolResponse
	if err := c.post(ctx, "/v1/pools", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WithdrawAllLiquidity pulls all remaining liquidity out of a pool.
func (c *Client) WithdrawAllLiquidity(ctx context.Context, pool string) (*WithdrawResponse, error) {
	var resp WithdrawResponse
	if err := c.post(ctx, fmt.Sprintf("/v1/pools/%s/withdraw-all", pool), struct{}{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transfer moves base currency to a destination account.
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	var resp TransferResponse
	if err := c.post(ctx, "/v1/transfer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends a JSON request with exponential backoff on transient
// failures. 4xx responses are permanent; network errors and 5xx are
// retried until the context expires or the backoff gives up.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("execution service returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("execution service rejected request with status %d", resp.StatusCode))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.NewExponentialBackOff(), ctx))
}
