package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/jackc/pgx/v5"
)

// BetRepository implements the service.BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

const betColumns = `id, pool_id, user_id, option_selected, amount, created_at`

// Create inserts a new bet record
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (id, pool_id, user_id, option_selected, amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		bet.PoolID,
		bet.UserID,
		bet.OptionSelected,
		bet.Amount,
	).Scan(&bet.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet for pool %s: %w", bet.PoolID, err)
	}

	return nil
}

// GetByPoolAndUser retrieves a user's bet on a pool, nil when absent
func (r *BetRepository) GetByPoolAndUser(ctx context.Context, poolID, userID string) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE pool_id = $1 AND user_id = $2`

	var bet models.Bet
	err := r.q.QueryRow(ctx, query, poolID, userID).Scan(
		&bet.ID,
		&bet.PoolID,
		&bet.UserID,
		&bet.OptionSelected,
		&bet.Amount,
		&bet.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet for pool %s user %s: %w", poolID, userID, err)
	}

	return &bet, nil
}

// GetByPool returns all bets placed on a pool, oldest first
func (r *BetRepository) GetByPool(ctx context.Context, poolID string) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE pool_id = $1 ORDER BY created_at`
	return r.queryBets(ctx, query, poolID)
}

// GetByUser returns all bets placed by a user, newest first
func (r *BetRepository) GetByUser(ctx context.Context, userID string) ([]*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryBets(ctx, query, userID)
}

func (r *BetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		var bet models.Bet
		err := rows.Scan(
			&bet.ID,
			&bet.PoolID,
			&bet.UserID,
			&bet.OptionSelected,
			&bet.Amount,
			&bet.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, &bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}
