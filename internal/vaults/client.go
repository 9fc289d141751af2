// internal/vaults/client.go
package vaults

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"morpho-service/internal/domain"

	"go.uber.org/zap"
)

// DefaultPageSize is the page size used when the caller does not ask for one.
// The remote API may cap it; no bound is enforced here.
const DefaultPageSize = 1000

// fetchVaultsQuery is the fixed GraphQL document for the vault list
const fetchVaultsQuery = `query FetchVaults($first: Int, $skip: Int) {
  vaults(first: $first, skip: $skip) {
    items {
      address
      name
      symbol
      whitelisted
      asset {
        address
        name
        symbol
        decimals
      }
      dailyApys {
        apy
      }
      warnings {
        level
      }
      liquidity {
        underlying
        usd
      }
      chain {
        id
        network
        currency
      }
    }
  }
}`

// Client queries the Morpho GraphQL API for vault listings
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type vaultsResponse struct {
	Data *struct {
		Vaults struct {
			Items []domain.VaultRecord `json:"items"`
		} `json:"vaults"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchVaults retrieves one page of vaults. Items are returned exactly as the
// API sent them: response order, no transformation, no defaulting of missing
// optional fields. Any failure discards the whole call; there is no retry.
func (c *Client) FetchVaults(ctx context.Context, first, skip int) ([]domain.VaultRecord, error) {
	reqBody := graphQLRequest{
		Query: fetchVaultsQuery,
		Variables: map[string]interface{}{
			"first": first,
			"skip":  skip,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &domain.QueryError{Kind: domain.QueryTransport, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &domain.QueryError{Kind: domain.QueryTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Fetching vaults",
		zap.String("endpoint", c.endpoint),
		zap.Int("first", first),
		zap.Int("skip", skip))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.QueryError{Kind: domain.QueryTransport, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.QueryError{Kind: domain.QueryTransport, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Vault API error",
			zap.Int("status", resp.StatusCode),
			zap.String("response", string(bodyBytes)))
		return nil, &domain.QueryError{
			Kind:    domain.QueryTransport,
			Message: fmt.Sprintf("API error (%d): %s", resp.StatusCode, string(bodyBytes)),
		}
	}

	var result vaultsResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, &domain.QueryError{Kind: domain.QuerySchemaMismatch, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	// GraphQL reports query failures in-band with a 200 status
	if len(result.Errors) > 0 {
		serialized, _ := json.Marshal(result.Errors)
		return nil, &domain.QueryError{
			Kind:    domain.QueryRemote,
			Message: fmt.Sprintf("GraphQL errors: %s", string(serialized)),
		}
	}

	if result.Data == nil {
		return nil, &domain.QueryError{
			Kind:    domain.QuerySchemaMismatch,
			Message: "no data returned",
		}
	}

	items := result.Data.Vaults.Items
	c.logger.Info("Vaults fetched",
		zap.Int("count", len(items)),
		zap.Int("first", first),
		zap.Int("skip", skip))

	return items, nil
}
