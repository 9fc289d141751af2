// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://blue-api.morpho.org/graphql", cfg.Morpho.APIURL)
	require.Equal(t, "0xBBBBBbbBBb9cC5e90e3b3Af64bdAF62C37EEFFCb", cfg.Morpho.ContractAddress)
	require.Equal(t, "mainnet", cfg.Ethereum.Network)
	require.Equal(t, int64(1), cfg.Ethereum.ChainID)
	require.Equal(t, int64(100), cfg.Ethereum.MaxGasPrice)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Empty(t, cfg.Database.URL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MORPHO_API_URL", "http://localhost:4000/graphql")
	t.Setenv("MORPHO_ADDRESS", "0x0000000000000000000000000000000000000001")
	t.Setenv("ETHEREUM_NETWORK", "base")
	t.Setenv("ETHEREUM_MAX_GAS_PRICE", "25")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:4000/graphql", cfg.Morpho.APIURL)
	require.Equal(t, "0x0000000000000000000000000000000000000001", cfg.Morpho.ContractAddress)
	require.Equal(t, int64(8453), cfg.Ethereum.ChainID)
	require.Equal(t, "https://mainnet.base.org", cfg.Ethereum.RPCURL)
	require.Equal(t, int64(25), cfg.Ethereum.MaxGasPrice)
	require.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-port")
	t.Setenv("ETHEREUM_MAX_GAS_PRICE", "many")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.HTTP.Port)
	require.Equal(t, int64(100), cfg.Ethereum.MaxGasPrice)
}
