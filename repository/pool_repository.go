package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/jackc/pgx/v5"
)

// PoolRepository implements the service.PoolRepository interface
type PoolRepository struct {
	q queryable
}

// NewPoolRepository creates a new pool repository
func NewPoolRepository(db *database.DB) *PoolRepository {
	return &PoolRepository{q: db.Pool}
}

// newPoolRepositoryWithTx creates a new pool repository with a transaction
func newPoolRepositoryWithTx(tx queryable) *PoolRepository {
	return &PoolRepository{q: tx}
}

const poolColumns = `id, creator_id, name, modality, date_time, event_date_time, bet_amount, options, status, winner_option, created_at`

func scanPool(row pgx.Row) (*models.Pool, error) {
	var pool models.Pool
	err := row.Scan(
		&pool.ID,
		&pool.CreatorID,
		&pool.Name,
		&pool.Modality,
		&pool.DateTime,
		&pool.EventDateTime,
		&pool.BetAmount,
		&pool.Options,
		&pool.Status,
		&pool.WinnerOption,
		&pool.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

// Create inserts a new pool record
func (r *PoolRepository) Create(ctx context.Context, pool *models.Pool) error {
	query := `
		INSERT INTO pools (id, creator_id, name, modality, date_time, event_date_time, bet_amount, options, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		pool.ID,
		pool.CreatorID,
		pool.Name,
		pool.Modality,
		pool.DateTime,
		pool.EventDateTime,
		pool.BetAmount,
		pool.Options,
		pool.Status,
	).Scan(&pool.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pool %q: %w", pool.Name, err)
	}

	return nil
}

// GetByID retrieves a pool by id
func (r *PoolRepository) GetByID(ctx context.Context, id string) (*models.Pool, error) {
	query := `SELECT ` + poolColumns + ` FROM pools WHERE id = $1`

	pool, err := scanPool(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get pool %s: %w", id, err)
	}
	return pool, nil
}

// GetAll returns all pools, newest first
func (r *PoolRepository) GetAll(ctx context.Context) ([]*models.Pool, error) {
	query := `SELECT ` + poolColumns + ` FROM pools ORDER BY created_at DESC`
	return r.queryPools(ctx, query)
}

// GetUnfinished returns pools that have not been settled yet
func (r *PoolRepository) GetUnfinished(ctx context.Context) ([]*models.Pool, error) {
	query := `SELECT ` + poolColumns + ` FROM pools WHERE status <> 'FINISHED' ORDER BY event_date_time`
	return r.queryPools(ctx, query)
}

// GetByCreator returns pools created by a specific user, newest first
func (r *PoolRepository) GetByCreator(ctx context.Context, creatorID string) ([]*models.Pool, error) {
	query := `SELECT ` + poolColumns + ` FROM pools WHERE creator_id = $1 ORDER BY created_at DESC`
	return r.queryPools(ctx, query, creatorID)
}

func (r *PoolRepository) queryPools(ctx context.Context, query string, args ...any) ([]*models.Pool, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pools: %w", err)
	}
	defer rows.Close()

	var pools []*models.Pool
	for rows.Next() {
		var pool models.Pool
		err := rows.Scan(
			&pool.ID,
			&pool.CreatorID,
			&pool.Name,
			&pool.Modality,
			&pool.DateTime,
			&pool.EventDateTime,
			&pool.BetAmount,
			&pool.Options,
			&pool.Status,
			&pool.WinnerOption,
			&pool.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		pools = append(pools, &pool)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pools: %w", err)
	}

	return pools, nil
}

// Finalize marks a pool FINISHED with its winning option. Only status and
// winner_option are ever written; all other pool fields are immutable
// after creation. The status predicate makes the transition claimable
// exactly once: a concurrent settlement that loses the race gets false and
// must not pay anything.
func (r *PoolRepository) Finalize(ctx context.Context, poolID string, winnerOption string) (bool, error) {
	query := `
		UPDATE pools
		SET status = $1, winner_option = $2
		WHERE id = $3 AND status <> $1
	`

	result, err := r.q.Exec(ctx, query, models.PoolStatusFinished, winnerOption, poolID)
	if err != nil {
		return false, fmt.Errorf("failed to finalize pool %s: %w", poolID, err)
	}

	return result.RowsAffected() > 0, nil
}
