package swap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// DefaultBaseURL is the public Jupiter v6 API.
const DefaultBaseURL = "https://quote-api.jup.ag/v6"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the Jupiter aggregator. Responses are passed through
// as raw JSON: the wallet does not interpret route plans, it only
// relays them between the frontend and Jupiter.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client. An empty baseURL selects [DefaultBaseURL].
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QuoteRequest names a swap to price.
type QuoteRequest struct {
	InputMint   string
	OutputMint  string
	Amount      uint64 // smallest unit of the input mint
	SlippageBps int
}

// Quote fetches a route quote for the requested swap.
func (c *Client) Quote(ctx context.Context, q QuoteRequest) (jsoniter.RawMessage, error) {
	params := url.Values{}
	params.Set("inputMint", q.InputMint)
	params.Set("outputMint", q.OutputMint)
	params.Set("amount", strconv.FormatUint(q.Amount, 10))
	if q.SlippageBps > 0 {
		params.Set("slippageBps", strconv.Itoa(q.SlippageBps))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/quote?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build quote request")
	}
	return c.do(req, "quote")
}

// Swap asks Jupiter to build the swap transaction for a previously
// fetched quote. The response carries the unsigned transaction, base64
// encoded, which the caller signs and broadcasts.
func (c *Client) Swap(ctx context.Context, userPubkey string, quote jsoniter.RawMessage) (jsoniter.RawMessage, error) {
	body, err := json.Marshal(map[string]interface{}{
		"userPublicKey": userPubkey,
		"quoteResponse": quote,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal swap request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/swap", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build swap request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "swap")
}

func (c *Client) do(req *http.Request, op string) (jsoniter.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "call jupiter %s", op)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read jupiter %s response", op)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("swap: jupiter %s returned HTTP %d: %s", op, resp.StatusCode, truncate(payload))
	}
	return payload, nil
}

func truncate(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
