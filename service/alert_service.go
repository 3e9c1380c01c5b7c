package service

import (
	"context"
	"fmt"

	"bolao/models"
)

type alertService struct {
	uowFactory UnitOfWorkFactory
}

// NewAlertService creates a new alert service
func NewAlertService(uowFactory UnitOfWorkFactory) AlertService {
	return &alertService{uowFactory: uowFactory}
}

func (s *alertService) ListAlerts(ctx context.Context) ([]*models.SystemAlert, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	alerts, err := uow.AlertRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	return alerts, nil
}

func (s *alertService) DismissAlert(ctx context.Context, alertID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AlertRepository().Delete(ctx, alertID); err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
