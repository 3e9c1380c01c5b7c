package service

import (
	"context"
	"time"

	"bolao/events"
	"bolao/models"

	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by id, nil when absent
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail retrieves a user by email (case-insensitive), nil when absent
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Create inserts a new user record
	Create(ctx context.Context, user *models.User) error

	// GetAll returns all users
	GetAll(ctx context.Context) ([]*models.User, error)

	// UpdateProfile updates name, whatsapp and role
	UpdateProfile(ctx context.Context, user *models.User) error

	// SetBalances sets both balances directly (admin override path)
	SetBalances(ctx context.Context, userID string, balance, withdrawable decimal.Decimal) error

	// AddBalance credits the wagering balance atomically
	AddBalance(ctx context.Context, userID string, amount decimal.Decimal) error

	// DeductBalance debits the wagering balance atomically, failing if insufficient
	DeductBalance(ctx context.Context, userID string, amount decimal.Decimal) error

	// AddWithdrawable credits the withdrawable balance atomically
	AddWithdrawable(ctx context.Context, userID string, amount decimal.Decimal) error

	// DeductWithdrawable debits the withdrawable balance atomically, failing if insufficient
	DeductWithdrawable(ctx context.Context, userID string, amount decimal.Decimal) error
}

// PoolRepository defines the interface for pool data access
type PoolRepository interface {
	Create(ctx context.Context, pool *models.Pool) error
	GetByID(ctx context.Context, id string) (*models.Pool, error)
	GetAll(ctx context.Context) ([]*models.Pool, error)
	GetUnfinished(ctx context.Context) ([]*models.Pool, error)
	GetByCreator(ctx context.Context, creatorID string) ([]*models.Pool, error)

	// Finalize writes the terminal status and winning option, nothing else.
	// Returns false when the pool was already finished, so exactly one
	// caller ever claims the transition.
	Finalize(ctx context.Context, poolID string, winnerOption string) (bool, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	Create(ctx context.Context, bet *models.Bet) error
	GetByPoolAndUser(ctx context.Context, poolID, userID string) (*models.Bet, error)
	GetByPool(ctx context.Context, poolID string) ([]*models.Bet, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Bet, error)
}

// TransactionRepository defines the interface for ledger data access
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	GetAll(ctx context.Context) ([]*models.Transaction, error)
	GetPending(ctx context.Context) ([]*models.Transaction, error)

	// UpdateStatus moves a PENDING entry to a terminal status. Returns false
	// when the entry was no longer pending, so exactly one caller ever
	// claims the transition.
	UpdateStatus(ctx context.Context, id string, status models.TransactionStatus) (bool, error)
}

// AlertRepository defines the interface for system alert data access
type AlertRepository interface {
	Create(ctx context.Context, alert *models.SystemAlert) error
	GetAll(ctx context.Context) ([]*models.SystemAlert, error)
	GetByReference(ctx context.Context, referenceID string) (*models.SystemAlert, error)
	Delete(ctx context.Context, id string) error
	DeleteByReference(ctx context.Context, referenceID string) error
}

// AppConfigRepository defines the interface for the payment config singleton
type AppConfigRepository interface {
	Get(ctx context.Context) (*models.AppConfig, error)
	Save(ctx context.Context, cfg *models.AppConfig) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// SessionStore defines the interface for bearer-token session storage
type SessionStore interface {
	// Put stores a session token for a user with a TTL
	Put(ctx context.Context, token, userID string, ttl time.Duration) error

	// Get resolves a token to a user id; empty string when absent or expired
	Get(ctx context.Context, token string) (string, error)

	// Delete revokes a session token
	Delete(ctx context.Context, token string) error
}

// UserService defines the interface for account operations
type UserService interface {
	// Register creates a new member account with zero balances
	Register(ctx context.Context, name, email, password, whatsapp string) (*models.User, error)

	// Authenticate verifies credentials and returns the user
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// GetUser retrieves a user by id
	GetUser(ctx context.Context, id string) (*models.User, error)

	// ListUsers returns all users
	ListUsers(ctx context.Context) ([]*models.User, error)

	// AdminUpdateUser updates a user's profile fields
	AdminUpdateUser(ctx context.Context, userID, name, whatsapp string, role models.UserRole) (*models.User, error)

	// AdminSetBalances overrides both balances and records an adjustment entry
	AdminSetBalances(ctx context.Context, adminID, userID string, balance, withdrawable decimal.Decimal) error

	// SeedAdmin provisions the master admin account (seed subcommand only)
	SeedAdmin(ctx context.Context, name, email, password string) error
}

// LedgerService defines the interface for balance-moving operations. All
// balance mutation in the system goes through this service or settlement.
type LedgerService interface {
	// RequestDeposit appends a pending deposit; no balance change yet
	RequestDeposit(ctx context.Context, userID string, amount decimal.Decimal, receiptURL string) (*models.Transaction, error)

	// RequestWithdrawal reserves funds immediately and appends a pending withdrawal
	RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*models.Transaction, error)

	// ApproveTransaction approves a pending entry; no-op when not pending
	ApproveTransaction(ctx context.Context, txID string) error

	// RejectTransaction rejects a pending entry, refunding reserved withdrawal funds
	RejectTransaction(ctx context.Context, txID string) error

	// ListUserTransactions returns a user's ledger entries
	ListUserTransactions(ctx context.Context, userID string) ([]*models.Transaction, error)

	// ListPendingTransactions returns entries awaiting admin review
	ListPendingTransactions(ctx context.Context) ([]*models.Transaction, error)
}

// PoolService defines the interface for pool lifecycle operations
type PoolService interface {
	// CreatePool creates a new open pool with exactly two outcome options
	CreatePool(ctx context.Context, creatorID, name, modality string, deadline, eventTime time.Time, betAmount decimal.Decimal, options []string) (*models.Pool, error)

	// GetPool retrieves a pool with its status derived from the clock
	GetPool(ctx context.Context, poolID string) (*models.Pool, error)

	// ListPools returns all pools with derived statuses, raising overdue alerts
	ListPools(ctx context.Context) ([]*models.Pool, error)

	// PlaceBet places a user's single bet on an open pool
	PlaceBet(ctx context.Context, userID, poolID, option string) (*models.Bet, error)

	// Settle finishes a pool, paying the prize pool to winners. Settling an
	// already finished pool returns (nil, nil).
	Settle(ctx context.Context, poolID, winnerOption, settlerID string) (*models.SettlementResult, error)

	// ListPoolBets returns all bets on a pool
	ListPoolBets(ctx context.Context, poolID string) ([]*models.Bet, error)

	// ListUserBets returns all bets placed by a user
	ListUserBets(ctx context.Context, userID string) ([]*models.Bet, error)

	// RunStatusScan runs the derive-and-alert pass over unfinished pools
	RunStatusScan(ctx context.Context) error
}

// AlertService defines the interface for operational alerts
type AlertService interface {
	// ListAlerts returns all alerts, newest first
	ListAlerts(ctx context.Context) ([]*models.SystemAlert, error)

	// DismissAlert deletes an alert by id
	DismissAlert(ctx context.Context, alertID string) error
}

// ConfigService defines the interface for the platform payment configuration
type ConfigService interface {
	GetConfig(ctx context.Context) (*models.AppConfig, error)
	SaveConfig(ctx context.Context, cfg *models.AppConfig) error
}

// Assistant defines the interface for the support chat passthrough
type Assistant interface {
	// Reply answers a member's support message. Failures surface to the
	// member as a canned apology, never as an error.
	Reply(ctx context.Context, userName, message string) string
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	PoolRepository() PoolRepository
	BetRepository() BetRepository
	TransactionRepository() TransactionRepository
	AlertRepository() AlertRepository
	AppConfigRepository() AppConfigRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
