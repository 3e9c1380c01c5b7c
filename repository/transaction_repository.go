package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the service.TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, user_id, type, amount, status, receipt_url, reference_id, metadata, created_at`

// Create appends a new ledger entry
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	metadataJSON, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (id, user_id, type, amount, status, receipt_url, reference_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		tx.ID,
		tx.UserID,
		tx.Type,
		tx.Amount,
		tx.Status,
		tx.ReceiptURL,
		tx.ReferenceID,
		metadataJSON,
	).Scan(&tx.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create %s transaction for user %s: %w", tx.Type, tx.UserID, err)
	}

	return nil
}

// GetByID retrieves a ledger entry by id, nil when absent
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := r.scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", id, err)
	}
	return tx, nil
}

// GetByUser returns a user's ledger entries, newest first
func (r *TransactionRepository) GetByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryTransactions(ctx, query, userID)
}

// GetAll returns every ledger entry, newest first
func (r *TransactionRepository) GetAll(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC`
	return r.queryTransactions(ctx, query)
}

// GetPending returns ledger entries awaiting admin review, oldest first
func (r *TransactionRepository) GetPending(ctx context.Context) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE status = 'PENDING' ORDER BY created_at`
	return r.queryTransactions(ctx, query)
}

// UpdateStatus moves a ledger entry to a terminal review status. The PENDING
// predicate makes the transition claimable exactly once: a concurrent
// approval that loses the race gets false and must not move money.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) (bool, error) {
	query := `UPDATE transactions SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.Exec(ctx, query, status, id, models.TransactionStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to update transaction %s status: %w", id, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *TransactionRepository) scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	var metadataJSON []byte

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Type,
		&tx.Amount,
		&tx.Status,
		&tx.ReceiptURL,
		&tx.ReferenceID,
		&metadataJSON,
		&tx.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
		}
	}

	return &tx, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var metadataJSON []byte

		err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Type,
			&tx.Amount,
			&tx.Status,
			&tx.ReceiptURL,
			&tx.ReferenceID,
			&metadataJSON,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &tx.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}
