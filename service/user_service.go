package service

import (
	"context"
	"fmt"
	"strings"

	"bolao/events"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// Register creates a new member account with zero balances
func (s *userService) Register(ctx context.Context, name, email, password, whatsapp string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < 4 {
		return nil, fmt.Errorf("%w: password must be at least 4 characters", ErrValidation)
	}
	if len(whatsapp) < 8 {
		return nil, fmt.Errorf("%w: whatsapp contact must be at least 8 characters", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                  uuid.NewString(),
		Name:                name,
		Email:               email,
		PasswordHash:        string(hash),
		Whatsapp:            whatsapp,
		Role:                models.RoleUser,
		Balance:             decimal.Zero,
		WithdrawableBalance: decimal.Zero,
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// Authenticate verifies credentials and returns the user
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	return user, nil
}

// GetUser retrieves a user by id
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}

	return user, nil
}

// ListUsers returns all users
func (s *userService) ListUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	users, err := uow.UserRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// AdminUpdateUser updates a user's profile fields
func (s *userService) AdminUpdateUser(ctx context.Context, userID, name, whatsapp string, role models.UserRole) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if name != "" {
		user.Name = name
	}
	if whatsapp != "" {
		user.Whatsapp = whatsapp
	}
	user.Role = role

	if err := uow.UserRepository().UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

// AdminSetBalances overrides both balances directly. Unlike every other
// balance mutation this bypasses the normal ledger flow, so an APPROVED
// ADJUSTMENT entry carrying the deltas is recorded for audit parity.
func (s *userService) AdminSetBalances(ctx context.Context, adminID, userID string, balance, withdrawable decimal.Decimal) error {
	if balance.IsNegative() || withdrawable.IsNegative() {
		return fmt.Errorf("%w: balances cannot be negative", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	balanceDelta := balance.Sub(user.Balance)
	withdrawableDelta := withdrawable.Sub(user.WithdrawableBalance)

	if err := uow.UserRepository().SetBalances(ctx, userID, balance, withdrawable); err != nil {
		return fmt.Errorf("failed to set balances: %w", err)
	}

	adjustment := &models.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   models.TransactionTypeAdjustment,
		Amount: balanceDelta.Add(withdrawableDelta),
		Status: models.TransactionStatusApproved,
		Metadata: map[string]any{
			"admin_id":           adminID,
			"balance_delta":      balanceDelta.String(),
			"withdrawable_delta": withdrawableDelta.String(),
		},
	}
	if err := uow.TransactionRepository().Create(ctx, adjustment); err != nil {
		return fmt.Errorf("failed to record adjustment: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		TransactionType: models.TransactionTypeAdjustment,
		ChangeAmount:    adjustment.Amount,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SeedAdmin provisions the master admin account. Called only from the seed
// subcommand; authentication logic never special-cases any email.
func (s *userService) SeedAdmin(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return fmt.Errorf("%w: admin email and password are required", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	existing, err := uow.UserRepository().GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check existing admin: %w", err)
	}

	if existing != nil {
		if existing.Role == models.RoleAdmin {
			return nil
		}
		existing.Role = models.RoleAdmin
		if err := uow.UserRepository().UpdateProfile(ctx, existing); err != nil {
			return fmt.Errorf("failed to promote admin: %w", err)
		}
		return uow.Commit()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if name == "" {
		name = "Administrador"
	}

	admin := &models.User{
		ID:                  uuid.NewString(),
		Name:                name,
		Email:               email,
		PasswordHash:        string(hash),
		Whatsapp:            "",
		Role:                models.RoleAdmin,
		Balance:             decimal.Zero,
		WithdrawableBalance: decimal.Zero,
	}

	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return uow.Commit()
}
