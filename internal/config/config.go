// internal/config/config.go
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Morpho   MorphoConfig
	Ethereum EthereumConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
}

type MorphoConfig struct {
	APIURL          string // GraphQL endpoint
	ContractAddress string // deployed Morpho Blue address
}

type EthereumConfig struct {
	Network     string // mainnet, base
	RPCURL      string
	ChainID     int64
	PrivateKey  string
	MaxGasPrice int64 // in Gwei
}

type DatabaseConfig struct {
	URL string // empty disables the deposit journal
}

type HTTPConfig struct {
	Port int
}

// Load reads the environment once and resolves all defaults up front. The
// resulting value is threaded into constructors explicitly; nothing reads the
// environment at call time.
func Load() (*Config, error) {
	// ============================================================================
	// Ethereum Configuration
	// ============================================================================
	ethNetwork := getEnv("ETHEREUM_NETWORK", "mainnet")
	ethRPCURL := getEnv("ETHEREUM_RPC_URL", "")

	if ethRPCURL == "" {
		switch ethNetwork {
		case "mainnet":
			ethRPCURL = "https://eth.llamarpc.com"
		case "base":
			ethRPCURL = "https://mainnet.base.org"
		default:
			ethRPCURL = "https://eth.llamarpc.com"
		}
	}

	var ethChainID int64
	switch ethNetwork {
	case "mainnet":
		ethChainID = 1
	case "base":
		ethChainID = 8453
	default:
		ethChainID = getEnvAsInt64("ETHEREUM_CHAIN_ID", 1)
	}

	// ============================================================================
	// Morpho Configuration
	// ============================================================================
	morphoAddress := getEnv("MORPHO_ADDRESS", "")
	if morphoAddress == "" {
		switch ethNetwork {
		case "mainnet", "base":
			// Morpho Blue is deployed at the same address on both networks
			morphoAddress = "0xBBBBBbbBBb9cC5e90e3b3Af64bdAF62C37EEFFCb"
		default:
			morphoAddress = "0xBBBBBbbBBb9cC5e90e3b3Af64bdAF62C37EEFFCb"
		}
	}

	return &Config{
		Morpho: MorphoConfig{
			APIURL:          getEnv("MORPHO_API_URL", "https://blue-api.morpho.org/graphql"),
			ContractAddress: morphoAddress,
		},
		Ethereum: EthereumConfig{
			Network:     ethNetwork,
			RPCURL:      ethRPCURL,
			ChainID:     ethChainID,
			PrivateKey:  os.Getenv("ETHEREUM_PRIVATE_KEY"),
			MaxGasPrice: getEnvAsInt64("ETHEREUM_MAX_GAS_PRICE", 100),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		HTTP: HTTPConfig{
			Port: getEnvAsInt("HTTP_PORT", 8080),
		},
	}, nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
