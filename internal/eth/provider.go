// Package eth is a thin Ethereum provider boundary: a connected-address
// snapshot read and raw transaction submission. It awaits submission only;
// mining and confirmation are out of scope.
package eth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 30 * time.Second

// Provider is a JSON-RPC 2.0 Ethereum provider client.
type Provider struct {
	endpoint  string
	client    *http.Client
	requestID atomic.Uint64
}

// ProviderOption configures Provider.
type ProviderOption func(*Provider)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.client = client
	}
}

// NewProvider creates a provider client for the given endpoint.
func NewProvider(endpoint string, opts ...ProviderOption) *Provider {
	p := &Provider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC call. Single attempt: submission is not safely
// retryable, a resend could double-spend.
func (p *Provider) call(ctx context.Context, method string, params []any, result any) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      p.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}

// ConnectedAddress returns the provider's first unlocked account, or the
// empty string when no wallet is connected. Satisfies market.Wallet.
func (p *Provider) ConnectedAddress(ctx context.Context) (string, error) {
	var accounts []string
	if err := p.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0], nil
}

// sendTxParams is the eth_sendTransaction parameter object.
type sendTxParams struct {
	From string `json:"from"`
	To   string `json:"to"`
	Data string `json:"data"`
}

// SendTransaction submits a contract write and returns the transaction hash.
func (p *Provider) SendTransaction(ctx context.Context, from, to string, data []byte) (string, error) {
	params := []any{sendTxParams{
		From: from,
		To:   to,
		Data: "0x" + fmt.Sprintf("%x", data),
	}}

	var txHash string
	if err := p.call(ctx, "eth_sendTransaction", params, &txHash); err != nil {
		return "", err
	}
	return txHash, nil
}
