package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/jackc/pgx/v5"
)

// AlertRepository implements the service.AlertRepository interface
type AlertRepository struct {
	q queryable
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{q: db.Pool}
}

// newAlertRepositoryWithTx creates a new alert repository with a transaction
func newAlertRepositoryWithTx(tx queryable) *AlertRepository {
	return &AlertRepository{q: tx}
}

const alertColumns = `id, type, message, reference_id, fixed, created_at`

// Create inserts a new alert record. An alert already keyed by the same
// reference id wins the race: the insert becomes a no-op instead of a
// unique violation, keeping at most one alert per reference.
func (r *AlertRepository) Create(ctx context.Context, alert *models.SystemAlert) error {
	query := `
		INSERT INTO system_alerts (id, type, message, reference_id, fixed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (reference_id) WHERE reference_id IS NOT NULL DO NOTHING
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		alert.ID,
		alert.Type,
		alert.Message,
		alert.ReferenceID,
		alert.Fixed,
	).Scan(&alert.CreatedAt)

	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// GetAll returns all alerts, newest first
func (r *AlertRepository) GetAll(ctx context.Context) ([]*models.SystemAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM system_alerts ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*models.SystemAlert
	for rows.Next() {
		var alert models.SystemAlert
		err := rows.Scan(
			&alert.ID,
			&alert.Type,
			&alert.Message,
			&alert.ReferenceID,
			&alert.Fixed,
			&alert.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, &alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, nil
}

// GetByReference retrieves the alert keyed by a reference id, nil when absent
func (r *AlertRepository) GetByReference(ctx context.Context, referenceID string) (*models.SystemAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM system_alerts WHERE reference_id = $1`

	var alert models.SystemAlert
	err := r.q.QueryRow(ctx, query, referenceID).Scan(
		&alert.ID,
		&alert.Type,
		&alert.Message,
		&alert.ReferenceID,
		&alert.Fixed,
		&alert.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert by reference %s: %w", referenceID, err)
	}

	return &alert, nil
}

// Delete removes an alert by id
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM system_alerts WHERE id = $1`

	if _, err := r.q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete alert %s: %w", id, err)
	}

	return nil
}

// DeleteByReference removes every alert keyed by a reference id
func (r *AlertRepository) DeleteByReference(ctx context.Context, referenceID string) error {
	query := `DELETE FROM system_alerts WHERE reference_id = $1`

	if _, err := r.q.Exec(ctx, query, referenceID); err != nil {
		return fmt.Errorf("failed to delete alerts for reference %s: %w", referenceID, err)
	}

	return nil
}
