// internal/repository/deposit_repo.go
package repository

import (
	"context"
	"fmt"
	"math/big"

	"morpho-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DepositRepository journals submitted supply transactions. Amounts are
// stored as decimal strings to keep arbitrary precision.
type DepositRepository struct {
	pool *pgxpool.Pool
}

func NewDepositRepository(pool *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{pool: pool}
}

// Create inserts a new journal entry
func (r *DepositRepository) Create(ctx context.Context, record *domain.DepositRecord) error {
	query := `
		INSERT INTO morpho_deposits (
			deposit_id, market_id, loan_token, on_behalf,
			assets, shares, tx_hash, block_number,
			status, submitted_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10
		)
		RETURNING id, created_at, updated_at
	`

	if record.DepositID == "" {
		record.DepositID = uuid.New().String()
	}

	err := r.pool.QueryRow(
		ctx, query,
		record.DepositID,
		record.MarketID,
		record.LoanToken,
		record.OnBehalf,
		bigIntString(record.Assets),
		bigIntString(record.Shares),
		record.TxHash,
		record.BlockNumber,
		record.Status,
		record.SubmittedAt,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create deposit record: %w", err)
	}

	return nil
}

// MarkConfirmed updates a journal entry after the transaction mined
func (r *DepositRepository) MarkConfirmed(ctx context.Context, depositID, txHash string, shares *big.Int, blockNumber int64) error {
	query := `
		UPDATE morpho_deposits
		SET
			status = $1,
			tx_hash = $2,
			shares = $3,
			block_number = $4,
			confirmed_at = NOW(),
			updated_at = NOW()
		WHERE deposit_id = $5
	`

	result, err := r.pool.Exec(ctx, query, domain.DepositStatusConfirmed, txHash, bigIntString(shares), blockNumber, depositID)
	if err != nil {
		return fmt.Errorf("failed to mark deposit confirmed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deposit record not found")
	}

	return nil
}

// MarkFailed records a failed submission or confirmation
func (r *DepositRepository) MarkFailed(ctx context.Context, depositID string) error {
	query := `
		UPDATE morpho_deposits
		SET status = $1, updated_at = NOW()
		WHERE deposit_id = $2
	`

	result, err := r.pool.Exec(ctx, query, domain.DepositStatusFailed, depositID)
	if err != nil {
		return fmt.Errorf("failed to mark deposit failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("deposit record not found")
	}

	return nil
}

// GetByDepositID retrieves a journal entry by UUID
func (r *DepositRepository) GetByDepositID(ctx context.Context, depositID string) (*domain.DepositRecord, error) {
	query := `
		SELECT
			id, deposit_id, market_id, loan_token, on_behalf,
			assets, shares, tx_hash, block_number,
			status, submitted_at, confirmed_at,
			created_at, updated_at
		FROM morpho_deposits
		WHERE deposit_id = $1
	`

	record := &domain.DepositRecord{}
	err := r.scanRecord(r.pool.QueryRow(ctx, query, depositID), record)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("deposit record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deposit record: %w", err)
	}

	return record, nil
}

// ListRecent retrieves recent journal entries with pagination
func (r *DepositRepository) ListRecent(ctx context.Context, limit, offset int) ([]*domain.DepositRecord, error) {
	query := `
		SELECT
			id, deposit_id, market_id, loan_token, on_behalf,
			assets, shares, tx_hash, block_number,
			status, submitted_at, confirmed_at,
			created_at, updated_at
		FROM morpho_deposits
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.DepositRecord
	for rows.Next() {
		record := &domain.DepositRecord{}
		if err := r.scanRecord(rows, record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposit records: %w", err)
	}

	return records, nil
}

// scanRecord scans a row into DepositRecord
func (r *DepositRepository) scanRecord(row pgx.Row, record *domain.DepositRecord) error {
	var assetsStr, sharesStr string

	err := row.Scan(
		&record.ID,
		&record.DepositID,
		&record.MarketID,
		&record.LoanToken,
		&record.OnBehalf,
		&assetsStr,
		&sharesStr,
		&record.TxHash,
		&record.BlockNumber,
		&record.Status,
		&record.SubmittedAt,
		&record.ConfirmedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		return err
	}

	record.Assets = parseBigInt(assetsStr)
	record.Shares = parseBigInt(sharesStr)

	return nil
}

func bigIntString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return big.NewInt(0)
	}
	return v
}
