// internal/vaults/client_test.go
package vaults

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"morpho-service/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchVaultsReturnsItemsVerbatim(t *testing.T) {
	var gotBody struct {
		Query     string         `json:"query"`
		Variables map[string]int `json:"variables"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {"vaults": {"items": [
				{
					"address": "0x38989BBA00BDF8181F4082995b3DEAe96163aC5D",
					"name": "Steakhouse USDC",
					"symbol": "steakUSDC",
					"whitelisted": true,
					"asset": {"address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "name": "USD Coin", "symbol": "USDC", "decimals": 6},
					"dailyApys": [{"apy": 0.0812}, {"apy": 0.0795}],
					"warnings": [],
					"liquidity": {"underlying": 1500000.5, "usd": 1500100.25},
					"chain": {"id": 1, "network": "ethereum", "currency": "ETH"}
				},
				{
					"address": "0xd63070114470f685b75B74D60EEc7c1113d33a3D",
					"name": "Usual Boosted USDC",
					"symbol": "USUALUSDC+",
					"whitelisted": false,
					"asset": {"address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "name": "USD Coin", "symbol": "USDC", "decimals": 6},
					"dailyApys": [{"apy": 0.1201}],
					"warnings": [{"level": "YELLOW"}],
					"liquidity": {"underlying": 42.0, "usd": 42.1},
					"chain": {"id": 1, "network": "ethereum", "currency": "ETH"}
				}
			]}}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	items, err := client.FetchVaults(context.Background(), 100, 20)
	require.NoError(t, err)

	// variables passed through, not clamped or rewritten
	require.Equal(t, 100, gotBody.Variables["first"])
	require.Equal(t, 20, gotBody.Variables["skip"])
	require.Contains(t, gotBody.Query, "query FetchVaults")

	// response order and fields copied as-is
	require.Len(t, items, 2)
	require.Equal(t, "0x38989BBA00BDF8181F4082995b3DEAe96163aC5D", items[0].Address)
	require.Equal(t, "Steakhouse USDC", items[0].Name)
	require.True(t, items[0].Whitelisted)
	require.Equal(t, 6, items[0].Asset.Decimals)
	require.Equal(t, []domain.DailyApy{{Apy: 0.0812}, {Apy: 0.0795}}, items[0].DailyApys)
	require.Empty(t, items[0].Warnings)
	require.Equal(t, 1500100.25, items[0].Liquidity.USD)
	require.Equal(t, "ethereum", items[0].Chain.Network)

	require.Equal(t, "USUALUSDC+", items[1].Symbol)
	require.False(t, items[1].Whitelisted)
	require.Equal(t, []domain.VaultWarning{{Level: "YELLOW"}}, items[1].Warnings)
}

func TestFetchVaultsIsRepeatable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"vaults": {"items": [{"address": "0x1", "name": "A", "symbol": "A", "whitelisted": false}]}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())

	first, err := client.FetchVaults(context.Background(), 10, 0)
	require.NoError(t, err)
	second, err := client.FetchVaults(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFetchVaultsGraphQLErrors(t *testing.T) {
	// GraphQL signals query failures in-band: HTTP 200 with an errors array
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "Something went wrong"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.FetchVaults(context.Background(), 1000, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Something went wrong")
	require.Contains(t, err.Error(), "failed to fetch vaults")

	var qerr *domain.QueryError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, domain.QueryRemote, qerr.Kind)
}

func TestFetchVaultsNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.FetchVaults(context.Background(), 1000, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no data returned")

	var qerr *domain.QueryError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, domain.QuerySchemaMismatch, qerr.Kind)
}

func TestFetchVaultsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.FetchVaults(context.Background(), 1000, 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "upstream exploded")

	var qerr *domain.QueryError
	require.ErrorAs(t, err, &qerr)
	require.Equal(t, domain.QueryTransport, qerr.Kind)
}

func TestFetchVaultsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient(srv.URL, zap.NewNop())
	_, err := client.FetchVaults(context.Background(), 1000, 0)
	require.Error(t, err)

	var qerr *domain.QueryError
	require.True(t, errors.As(err, &qerr))
	require.Equal(t, domain.QueryTransport, qerr.Kind)
}
