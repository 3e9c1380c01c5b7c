package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bolao/events"
	"bolao/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type poolService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewPoolService creates a new pool lifecycle service
func NewPoolService(uowFactory UnitOfWorkFactory) PoolService {
	return &poolService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// CreatePool creates a new open pool with exactly two outcome options
func (s *poolService) CreatePool(ctx context.Context, creatorID, name, modality string, deadline, eventTime time.Time, betAmount decimal.Decimal, options []string) (*models.Pool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: pool name cannot be empty", ErrValidation)
	}
	if !betAmount.IsPositive() {
		return nil, fmt.Errorf("%w: bet amount must be positive", ErrValidation)
	}
	if len(options) != 2 {
		return nil, fmt.Errorf("%w: pool must have exactly 2 options", ErrValidation)
	}
	optA := strings.TrimSpace(options[0])
	optB := strings.TrimSpace(options[1])
	if optA == "" || optB == "" {
		return nil, fmt.Errorf("%w: options cannot be empty", ErrValidation)
	}
	if optA == optB {
		return nil, fmt.Errorf("%w: options must be distinct", ErrValidation)
	}
	if !deadline.After(s.now()) {
		return nil, fmt.Errorf("%w: betting deadline must be in the future", ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	creator, err := uow.UserRepository().GetByID(ctx, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	if creator == nil {
		return nil, fmt.Errorf("%w: creator %s", ErrNotFound, creatorID)
	}

	pool := &models.Pool{
		ID:            uuid.NewString(),
		CreatorID:     creatorID,
		Name:          name,
		Modality:      modality,
		DateTime:      deadline,
		EventDateTime: eventTime,
		BetAmount:     betAmount,
		Options:       []string{optA, optB},
		Status:        models.PoolStatusOpen,
	}

	if err := uow.PoolRepository().Create(ctx, pool); err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pool, nil
}

// GetPool retrieves a pool with its status derived from the clock. The
// derived value is set on the returned struct only; the stored record is
// never rewritten by a read.
func (s *poolService) GetPool(ctx context.Context, poolID string) (*models.Pool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pool, err := uow.PoolRepository().GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: pool %s", ErrNotFound, poolID)
	}

	now := s.now()
	if err := s.ensureOverdueAlert(ctx, uow, pool, now); err != nil {
		return nil, err
	}
	pool.Status = models.DeriveStatus(pool, now)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pool, nil
}

// ListPools returns all pools with derived statuses. As a side effect the
// read raises overdue-settlement alerts, matching the scan pass.
func (s *poolService) ListPools(ctx context.Context) ([]*models.Pool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pools, err := uow.PoolRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}

	now := s.now()
	for _, pool := range pools {
		if err := s.ensureOverdueAlert(ctx, uow, pool, now); err != nil {
			return nil, err
		}
		pool.Status = models.DeriveStatus(pool, now)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return pools, nil
}

// PlaceBet places a user's single bet on an open pool. Debiting the stake,
// appending the ledger entry and recording the bet happen in one unit of
// work; no partial state is observable.
func (s *poolService) PlaceBet(ctx context.Context, userID, poolID, option string) (*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pool, err := uow.PoolRepository().GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: pool %s", ErrNotFound, poolID)
	}

	if models.DeriveStatus(pool, s.now()) != models.PoolStatusOpen {
		return nil, fmt.Errorf("%w: pool is no longer accepting bets", ErrInvalidState)
	}

	if !pool.HasOption(option) {
		return nil, fmt.Errorf("%w: %q is not an option of this pool", ErrValidation, option)
	}

	existing, err := uow.BetRepository().GetByPoolAndUser(ctx, poolID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bet: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: limit of one bet per user per pool", ErrDuplicateBet)
	}

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, userID)
	}

	if user.Balance.LessThan(pool.BetAmount) {
		return nil, fmt.Errorf("%w: balance %s is less than stake %s",
			ErrInsufficientFunds, user.Balance, pool.BetAmount)
	}

	if err := uow.UserRepository().DeductBalance(ctx, userID, pool.BetAmount); err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	bet := &models.Bet{
		ID:             uuid.NewString(),
		PoolID:         poolID,
		UserID:         userID,
		OptionSelected: option,
		Amount:         pool.BetAmount,
	}
	if err := uow.BetRepository().Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	betTx := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.TransactionTypeBet,
		Amount:      pool.BetAmount,
		Status:      models.TransactionStatusApproved,
		ReferenceID: &poolID,
	}
	if err := uow.TransactionRepository().Create(ctx, betTx); err != nil {
		return nil, fmt.Errorf("failed to record bet transaction: %w", err)
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		BetID:    bet.ID,
		PoolID:   poolID,
		UserID:   userID,
		Option:   option,
		Modality: pool.Modality,
		Amount:   pool.BetAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bet, nil
}

// Settle finishes a pool: 10% of the collected stakes stays with the
// platform, the rest is split equally among winning bets and credited to
// their withdrawable balances. A pool with no winning bets still finishes;
// the pot is retained, not refunded. Settling an already finished pool is
// a silent no-op.
func (s *poolService) Settle(ctx context.Context, poolID, winnerOption, settlerID string) (*models.SettlementResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pool, err := uow.PoolRepository().GetByID(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool: %w", err)
	}
	if pool == nil {
		return nil, fmt.Errorf("%w: pool %s", ErrNotFound, poolID)
	}

	if pool.IsFinished() {
		return nil, nil
	}

	settler, err := uow.UserRepository().GetByID(ctx, settlerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settler: %w", err)
	}
	if settler == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, settlerID)
	}
	if settler.ID != pool.CreatorID && !settler.IsAdmin() {
		return nil, fmt.Errorf("%w: only the pool creator or an admin can settle", ErrUnauthorized)
	}

	if !pool.HasOption(winnerOption) {
		return nil, fmt.Errorf("%w: %q is not an option of this pool", ErrValidation, winnerOption)
	}

	// Claim the FINISHED transition before moving any money. The conditional
	// update locks the pool row, so a concurrent settlement blocks here and
	// then sees the claim already taken.
	claimed, err := uow.PoolRepository().Finalize(ctx, poolID, winnerOption)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize pool: %w", err)
	}
	if !claimed {
		return nil, nil
	}

	bets, err := uow.BetRepository().GetByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool bets: %w", err)
	}

	totalCollected := decimal.Zero
	var winners []*models.Bet
	for _, bet := range bets {
		totalCollected = totalCollected.Add(bet.Amount)
		if bet.OptionSelected == winnerOption {
			winners = append(winners, bet)
		}
	}

	prizePool := models.PrizePoolFor(totalCollected)
	individualPrize := models.SplitPrize(prizePool, len(winners))
	prizePaid := decimal.Zero

	for _, winner := range winners {
		if err := uow.UserRepository().AddWithdrawable(ctx, winner.UserID, individualPrize); err != nil {
			return nil, fmt.Errorf("failed to credit prize: %w", err)
		}

		prizeTx := &models.Transaction{
			ID:          uuid.NewString(),
			UserID:      winner.UserID,
			Type:        models.TransactionTypePrize,
			Amount:      individualPrize,
			Status:      models.TransactionStatusApproved,
			ReferenceID: &poolID,
		}
		if err := uow.TransactionRepository().Create(ctx, prizeTx); err != nil {
			return nil, fmt.Errorf("failed to record prize transaction: %w", err)
		}

		prizePaid = prizePaid.Add(individualPrize)

		uow.EventBus().Publish(events.BalanceChangeEvent{
			UserID:          winner.UserID,
			TransactionType: models.TransactionTypePrize,
			ChangeAmount:    individualPrize,
			Withdrawable:    true,
		})
	}

	// Settlement resolves the overdue condition; drop any alert keyed by this pool
	if err := uow.AlertRepository().DeleteByReference(ctx, poolID); err != nil {
		return nil, fmt.Errorf("failed to clear pool alerts: %w", err)
	}

	uow.EventBus().Publish(events.PoolSettledEvent{
		PoolID:         poolID,
		WinnerOption:   winnerOption,
		WinnerCount:    len(winners),
		TotalCollected: totalCollected,
		PrizePaid:      prizePaid,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	pool.Status = models.PoolStatusFinished
	pool.WinnerOption = &winnerOption

	return &models.SettlementResult{
		Pool:            pool,
		WinnerOption:    winnerOption,
		TotalCollected:  totalCollected,
		PrizePool:       prizePool,
		IndividualPrize: individualPrize,
		Winners:         winners,
		PrizePaid:       prizePaid,
	}, nil
}

// ListPoolBets returns all bets on a pool
func (s *poolService) ListPoolBets(ctx context.Context, poolID string) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByPool(ctx, poolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pool bets: %w", err)
	}

	return bets, nil
}

// ListUserBets returns all bets placed by a user
func (s *poolService) ListUserBets(ctx context.Context, userID string) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bets: %w", err)
	}

	return bets, nil
}

// RunStatusScan runs the derive-and-alert pass over unfinished pools. The
// background worker calls this so overdue alerts surface even when nobody
// is browsing pools.
func (s *poolService) RunStatusScan(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	pools, err := uow.PoolRepository().GetUnfinished(ctx)
	if err != nil {
		return fmt.Errorf("failed to get unfinished pools: %w", err)
	}

	now := s.now()
	for _, pool := range pools {
		if err := s.ensureOverdueAlert(ctx, uow, pool, now); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ensureOverdueAlert raises exactly one CRITICAL alert for a pool still
// awaiting its result more than the grace period past the event time.
func (s *poolService) ensureOverdueAlert(ctx context.Context, uow UnitOfWork, pool *models.Pool, now time.Time) error {
	if !pool.IsOverdue(now) {
		return nil
	}

	existing, err := uow.AlertRepository().GetByReference(ctx, pool.ID)
	if err != nil {
		return fmt.Errorf("failed to check existing alert: %w", err)
	}
	if existing != nil {
		return nil
	}

	refID := pool.ID
	alert := &models.SystemAlert{
		ID:          uuid.NewString(),
		Type:        models.AlertTypeCritical,
		Message:     fmt.Sprintf("ANALISAR BOLÃO: %q não foi encerrado.", pool.Name),
		ReferenceID: &refID,
	}

	if err := uow.AlertRepository().Create(ctx, alert); err != nil {
		return fmt.Errorf("failed to create overdue alert: %w", err)
	}

	uow.EventBus().Publish(events.AlertRaisedEvent{
		AlertID:     alert.ID,
		AlertType:   alert.Type,
		ReferenceID: pool.ID,
		Message:     alert.Message,
	})

	return nil
}
