package service

import (
	"context"
	"fmt"

	"bolao/events"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// RequestDeposit appends a PENDING deposit entry. The wagering balance is
// credited only once an admin verifies the receipt and approves.
func (s *ledgerService) RequestDeposit(ctx context.Context, userID string, amount decimal.Decimal, receiptURL string) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrValidation)
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

	tx := &models.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   models.TransactionTypeDeposit,
		Amount: amount,
		Status: models.TransactionStatusPending,
	}
	if receiptURL != "" {
		tx.ReceiptURL = &receiptURL
	}

	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create deposit: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tx, nil
}

// RequestWithdrawal reserves funds optimistically: the withdrawable balance
// is debited at request time so a user cannot queue withdrawals that
// jointly exceed it. Approval later moves no money; rejection refunds.
func (s *ledgerService) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", ErrValidation)
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

	if user.WithdrawableBalance.LessThan(amount) {
		return nil, fmt.Errorf("%w: withdrawable balance %s is less than %s",
			ErrInsufficientFunds, user.WithdrawableBalance, amount)
	}

	if err := uow.UserRepository().DeductWithdrawable(ctx, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to reserve withdrawal funds: %w", err)
	}

	tx := &models.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   models.TransactionTypeWithdrawal,
		Amount: amount,
		Status: models.TransactionStatusPending,
	}

	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		TransactionType: models.TransactionTypeWithdrawal,
		ChangeAmount:    amount.Neg(),
		Withdrawable:    true,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return tx, nil
}

// ApproveTransaction approves a pending entry. Approving an entry that is
// no longer pending is a benign no-op so repeated admin clicks stay
// idempotent. Deposits credit the wagering balance here; withdrawals were
// already debited at request time and only change status.
func (s *ledgerService) ApproveTransaction(ctx context.Context, txID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.TransactionRepository().GetByID(ctx, txID)
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	if !tx.IsPending() {
		return nil
	}

	// Claim the PENDING entry before crediting. A concurrent approval blocks
	// on the row lock and then finds nothing left to claim, so the deposit
	// can never be credited twice.
	claimed, err := uow.TransactionRepository().UpdateStatus(ctx, txID, models.TransactionStatusApproved)
	if err != nil {
		return fmt.Errorf("failed to approve transaction: %w", err)
	}
	if !claimed {
		return nil
	}

	if tx.Type == models.TransactionTypeDeposit {
		if err := uow.UserRepository().AddBalance(ctx, tx.UserID, tx.Amount); err != nil {
			return fmt.Errorf("failed to credit deposit: %w", err)
		}
		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:          tx.UserID,
			TransactionType: models.TransactionTypeDeposit,
			ChangeAmount:    tx.Amount,
		})
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RejectTransaction rejects a pending entry. Rejected withdrawals refund
// the optimistic debit; rejected deposits never touched a balance.
func (s *ledgerService) RejectTransaction(ctx context.Context, txID string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.TransactionRepository().GetByID(ctx, txID)
	if err != nil {
		return fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return fmt.Errorf("%w: transaction %s", ErrNotFound, txID)
	}
	if !tx.IsPending() {
		return nil
	}

	// Claim the PENDING entry before refunding so a concurrent rejection
	// cannot refund the reservation twice.
	claimed, err := uow.TransactionRepository().UpdateStatus(ctx, txID, models.TransactionStatusRejected)
	if err != nil {
		return fmt.Errorf("failed to reject transaction: %w", err)
	}
	if !claimed {
		return nil
	}

	if tx.Type == models.TransactionTypeWithdrawal {
		if err := uow.UserRepository().AddWithdrawable(ctx, tx.UserID, tx.Amount); err != nil {
			return fmt.Errorf("failed to refund withdrawal: %w", err)
		}
		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:          tx.UserID,
			TransactionType: models.TransactionTypeWithdrawal,
			ChangeAmount:    tx.Amount,
			Withdrawable:    true,
		})
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListUserTransactions returns a user's ledger entries, newest first
func (s *ledgerService) ListUserTransactions(ctx context.Context, userID string) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txs, err := uow.TransactionRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}

// ListPendingTransactions returns entries awaiting admin review
func (s *ledgerService) ListPendingTransactions(ctx context.Context) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txs, err := uow.TransactionRepository().GetPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	return txs, nil
}
