package repository

import (
	"context"
	"fmt"

	"bolao/database"
	"bolao/models"

	"github.com/jackc/pgx/v5"
)

// AppConfigRepository implements the service.AppConfigRepository interface
type AppConfigRepository struct {
	q queryable
}

// NewAppConfigRepository creates a new app config repository
func NewAppConfigRepository(db *database.DB) *AppConfigRepository {
	return &AppConfigRepository{q: db.Pool}
}

// newAppConfigRepositoryWithTx creates a new app config repository with a transaction
func newAppConfigRepositoryWithTx(tx queryable) *AppConfigRepository {
	return &AppConfigRepository{q: tx}
}

// Get returns the platform payment configuration singleton
func (r *AppConfigRepository) Get(ctx context.Context) (*models.AppConfig, error) {
	query := `SELECT payment_key, qr_code_url FROM app_config WHERE singleton`

	var cfg models.AppConfig
	err := r.q.QueryRow(ctx, query).Scan(&cfg.PaymentKey, &cfg.QRCodeURL)
	if err == pgx.ErrNoRows {
		// Seeded by migration; an empty table still yields usable defaults
		return &models.AppConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get app config: %w", err)
	}

	return &cfg, nil
}

// Save upserts the platform payment configuration singleton
func (r *AppConfigRepository) Save(ctx context.Context, cfg *models.AppConfig) error {
	query := `
		INSERT INTO app_config (singleton, payment_key, qr_code_url)
		VALUES (TRUE, $1, $2)
		ON CONFLICT (singleton) DO UPDATE
		SET payment_key = EXCLUDED.payment_key, qr_code_url = EXCLUDED.qr_code_url
	`

	if _, err := r.q.Exec(ctx, query, cfg.PaymentKey, cfg.QRCodeURL); err != nil {
		return fmt.Errorf("failed to save app config: %w", err)
	}

	return nil
}
