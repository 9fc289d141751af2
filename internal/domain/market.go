// internal/domain/market.go
package domain

import "math/big"

// MarketParams identifies a single Morpho Blue lending market.
// All four addresses plus the lltv are what the contract consumes; Id is the
// externally derived 32-byte market identifier and is carried opaquely. It is
// NOT cross-checked against the other fields here — the caller that derived it
// owns that consistency.
type MarketParams struct {
	LoanToken       string   // address
	CollateralToken string   // address
	Oracle          string   // address
	Irm             string   // interest rate model address
	Lltv            *big.Int // liquidation LTV, wad-scaled (1e18 = 100%)
	Id              string   // 0x-prefixed 32-byte market id
}

// DepositRequest describes one supply call into a market
type DepositRequest struct {
	MarketParams  MarketParams
	DepositAmount *big.Int // smallest token unit, must be non-negative
	OnBehalf      string   // optional, defaults to the sender's own address
}

// DepositResult is the outcome of a mined supply transaction
type DepositResult struct {
	Assets      *big.Int // amount actually transferred
	Shares      *big.Int // shares minted, best-effort from the first receipt log
	TxHash      string
	BlockNumber int64
}
