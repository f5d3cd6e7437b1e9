package swap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
)

func TestQuotePassesParametersThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "So11111111111111111111111111111111111111112", q.Get("inputMint"))
		require.Equal(t, "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", q.Get("outputMint"))
		require.Equal(t, "1000000000", q.Get("amount"))
		require.Equal(t, "50", q.Get("slippageBps"))
		io.WriteString(w, `{"outAmount":"153000000","routePlan":[]}`)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithHTTPClient(srv.Client()))
	quote, err := client.Quote(context.Background(), QuoteRequest{
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Amount:      1_000_000_000,
		SlippageBps: 50,
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"outAmount":"153000000","routePlan":[]}`, string(quote))
}

func TestSwapEmbedsQuoteVerbatim(t *testing.T) {
	quote := jsoniter.RawMessage(`{"outAmount":"42","routePlan":[{"swapInfo":{}}]}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/swap", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var parsed struct {
			UserPublicKey string              `json:"userPublicKey"`
			QuoteResponse jsoniter.RawMessage `json:"quoteResponse"`
		}
		require.NoError(t, jsoniter.Unmarshal(body, &parsed))
		require.Equal(t, "SomeUserPubkey", parsed.UserPublicKey)
		require.JSONEq(t, string(quote), string(parsed.QuoteResponse))

		io.WriteString(w, `{"swapTransaction":"AQAB..."}`)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithHTTPClient(srv.Client()))
	resp, err := client.Swap(context.Background(), "SomeUserPubkey", quote)
	require.NoError(t, err)
	require.JSONEq(t, `{"swapTransaction":"AQAB..."}`, string(resp))
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"No routes found"}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithHTTPClient(srv.Client()))
	_, err := client.Quote(context.Background(), QuoteRequest{
		InputMint:  "a",
		OutputMint: "b",
		Amount:     1,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "400")
}

func TestDefaultBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, New("").baseURL)
}
