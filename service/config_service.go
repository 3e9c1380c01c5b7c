package service

import (
	"context"
	"fmt"
	"strings"

	"bolao/models"
)

type configService struct {
	uowFactory UnitOfWorkFactory
}

// NewConfigService creates a new platform-config service
func NewConfigService(uowFactory UnitOfWorkFactory) ConfigService {
	return &configService{uowFactory: uowFactory}
}

func (s *configService) GetConfig(ctx context.Context) (*models.AppConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.AppConfigRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return cfg, nil
}

func (s *configService) SaveConfig(ctx context.Context, cfg *models.AppConfig) error {
	if strings.TrimSpace(cfg.PaymentKey) == "" {
		return fmt.Errorf("%w: payment key cannot be empty", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AppConfigRepository().Save(ctx, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
