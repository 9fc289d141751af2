// internal/domain/deposit.go
package domain

import (
	"math/big"
	"time"
)

// DepositStatus represents journal entry status
type DepositStatus string

const (
	DepositStatusSubmitted DepositStatus = "submitted"
	DepositStatusConfirmed DepositStatus = "confirmed"
	DepositStatusFailed    DepositStatus = "failed"
)

// DepositRecord is an audit journal entry for a submitted supply transaction.
// The journal is service-level bookkeeping only; the deposit operation itself
// never reads it back.
type DepositRecord struct {
	ID        int64
	DepositID string // UUID

	MarketID  string
	LoanToken string
	OnBehalf  string
	Assets    *big.Int
	Shares    *big.Int

	TxHash      string
	BlockNumber int64
	Status      DepositStatus

	SubmittedAt time.Time
	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
