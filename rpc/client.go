package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/splitsig/solwallet/solana"
)

// DefaultEndpoint is the Solana devnet RPC endpoint, used when a
// request does not name one.
const DefaultEndpoint = "https://api.devnet.solana.com"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Error is a failure reported by the RPC node itself, as opposed to a
// transport failure reaching it. Both kinds surface to callers as
// external errors; neither is ever folded into a protocol error.
type Error struct {
	Method  string
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc: %s failed: %s (code %d)", e.Method, e.Message, e.Code)
}

// Client is a minimal Solana JSON-RPC client covering the calls the
// wallet needs: fetching a recent block reference, broadcasting a
// signed transaction, and reading balances and node health.
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to set a
// custom timeout or to point tests at an httptest server transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the given RPC endpoint. An empty endpoint
// selects [DefaultEndpoint].
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the RPC endpoint this client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.Wrapf(err, "marshal %s request", method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "build %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", method)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("rpc: %s returned HTTP %d", method, resp.StatusCode)
	}

	var parsed rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return errors.Wrapf(err, "decode %s response", method)
	}
	if parsed.Error != nil {
		return &Error{Method: method, Code: parsed.Error.Code, Message: parsed.Error.Message}
	}
	if result != nil {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			return errors.Wrapf(err, "decode %s result", method)
		}
	}
	return nil
}

// LatestBlockhash fetches a recent block hash to scope a transaction's
// validity window.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	params := []interface{}{map[string]string{"commitment": "finalized"}}
	if err := c.call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return solana.Hash{}, err
	}
	return solana.ParseHash(result.Value.Blockhash)
}

// SendTransaction broadcasts a fully signed transaction and returns the
// chain's transaction signature. Broadcast is one-shot: the client does
// not retry, since a resubmitted transfer could double-spend once the
// first attempt lands.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(tx.Serialize())
	params := []interface{}{encoded, map[string]string{"encoding": "base64"}}

	var signature string
	if err := c.call(ctx, "sendTransaction", params, &signature); err != nil {
		return "", err
	}
	return signature, nil
}

// Balance returns an account's lamport balance.
func (c *Client) Balance(ctx context.Context, account solana.Pubkey) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []interface{}{account.String()}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// RequestAirdrop asks the cluster faucet to fund an account. Only
// meaningful on devnet and testnet.
func (c *Client) RequestAirdrop(ctx context.Context, account solana.Pubkey, lamports uint64) (string, error) {
	var signature string
	err := c.call(ctx, "requestAirdrop", []interface{}{account.String(), lamports}, &signature)
	if err != nil {
		return "", err
	}
	return signature, nil
}

// Health reports whether the RPC node considers itself healthy.
func (c *Client) Health(ctx context.Context) error {
	var status string
	if err := c.call(ctx, "getHealth", nil, &status); err != nil {
		return err
	}
	if status != "ok" {
		return errors.Errorf("rpc: node health is %q", status)
	}
	return nil
}
