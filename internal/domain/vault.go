// internal/domain/vault.go
package domain

// VaultRecord represents a Morpho vault as returned by the public API.
// Records are constructed only from decoded API responses and are never
// mutated afterwards.
type VaultRecord struct {
	Address     string         `json:"address"` // checksummed
	Name        string         `json:"name"`
	Symbol      string         `json:"symbol"`
	Whitelisted bool           `json:"whitelisted"`
	Asset       VaultAsset     `json:"asset"`
	DailyApys   []DailyApy     `json:"dailyApys"` // most-recent-first by convention
	Warnings    []VaultWarning `json:"warnings"`
	Liquidity   VaultLiquidity `json:"liquidity"`
	Chain       VaultChain     `json:"chain"`
}

// VaultAsset is the underlying asset of a vault
type VaultAsset struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// DailyApy is one daily APY sample
type DailyApy struct {
	Apy float64 `json:"apy"`
}

// VaultWarning is a curation warning attached to a vault
type VaultWarning struct {
	Level string `json:"level"`
}

// VaultLiquidity is available liquidity in underlying units and USD
type VaultLiquidity struct {
	Underlying float64 `json:"underlying"`
	USD        float64 `json:"usd"`
}

// VaultChain identifies the network a vault is deployed on
type VaultChain struct {
	ID       int    `json:"id"`
	Network  string `json:"network"`
	Currency string `json:"currency"`
}
