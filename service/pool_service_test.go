package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bolao/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func createTestPoolService() (PoolService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockUserRepository, *MockPoolRepository, *MockBetRepository, *MockTransactionRepository, *MockAlertRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockPoolRepo := new(MockPoolRepository)
	mockBetRepo := new(MockBetRepository)
	mockTxRepo := new(MockTransactionRepository)
	mockAlertRepo := new(MockAlertRepository)

	mockUoW.SetRepositories(mockUserRepo, mockPoolRepo, mockBetRepo, mockTxRepo, mockAlertRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)

	service := NewPoolService(mockFactory)
	return service, mockFactory, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, mockTxRepo, mockAlertRepo
}

func setupBasicTransactionMocks(mockUoW *MockUnitOfWork) {
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func createTestPool(id string, deadline, eventTime time.Time) *models.Pool {
	return &models.Pool{
		ID:            id,
		CreatorID:     "creator-1",
		Name:          "Galo x Cruzeiro",
		Modality:      "futebol",
		DateTime:      deadline,
		EventDateTime: eventTime,
		BetAmount:     decimal.NewFromInt(10),
		Options:       []string{"Galo", "Cruzeiro"},
		Status:        models.PoolStatusOpen,
	}
}

func createTestMember(id string, balance int64) *models.User {
	return &models.User{
		ID:      id,
		Name:    "Membro Teste",
		Email:   id + "@example.com",
		Role:    models.RoleUser,
		Balance: decimal.NewFromInt(balance),
	}
}

func decimalEq(expected decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}

func TestPoolService_PlaceBet_Success(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	service, mockFactory, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, mockTxRepo, _ := createTestPoolService()
	service.(*poolService).now = fixedClock(now)

	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", now.Add(time.Hour), now.Add(2*time.Hour))
	user := createTestMember("user-1", 50)

	mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
	mockBetRepo.On("GetByPoolAndUser", ctx, "pool-1", "user-1").Return(nil, nil)
	mockUserRepo.On("GetByID", ctx, "user-1").Return(user, nil)
	mockUserRepo.On("DeductBalance", ctx, "user-1", decimalEq(decimal.NewFromInt(10))).Return(nil)
	mockBetRepo.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.PoolID == "pool-1" && b.UserID == "user-1" &&
			b.OptionSelected == "Galo" && b.Amount.Equal(decimal.NewFromInt(10))
	})).Return(nil)
	mockTxRepo.On("Create", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.UserID == "user-1" &&
			tx.Type == models.TransactionTypeBet &&
			tx.Status == models.TransactionStatusApproved &&
			tx.ReferenceID != nil && *tx.ReferenceID == "pool-1" &&
			tx.Amount.Equal(decimal.NewFromInt(10))
	})).Return(nil)

	bet, err := service.PlaceBet(ctx, "user-1", "pool-1", "Galo")

	assert.NoError(t, err)
	assert.NotNil(t, bet)
	assert.Equal(t, "Galo", bet.OptionSelected)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
}

func TestPoolService_PlaceBet_Guards(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("pool not found", func(t *testing.T) {
		service, _, mockUoW, _, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		mockPoolRepo.On("GetByID", ctx, "missing").Return(nil, nil)

		bet, err := service.PlaceBet(ctx, "user-1", "missing", "Galo")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, bet)
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("deadline passed", func(t *testing.T) {
		service, _, mockUoW, _, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		// Deadline exactly now counts as closed
		pool := createTestPool("pool-1", now, now.Add(time.Hour))
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)

		bet, err := service.PlaceBet(ctx, "user-1", "pool-1", "Galo")

		assert.ErrorIs(t, err, ErrInvalidState)
		assert.Nil(t, bet)
	})

	t.Run("unknown option", func(t *testing.T) {
		service, _, mockUoW, _, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(time.Hour), now.Add(2*time.Hour))
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)

		bet, err := service.PlaceBet(ctx, "user-1", "pool-1", "Flamengo")

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, bet)
	})

	t.Run("duplicate bet", func(t *testing.T) {
		service, _, mockUoW, _, mockPoolRepo, mockBetRepo, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(time.Hour), now.Add(2*time.Hour))
		existing := &models.Bet{ID: "bet-1", PoolID: "pool-1", UserID: "user-1", OptionSelected: "Cruzeiro"}
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockBetRepo.On("GetByPoolAndUser", ctx, "pool-1", "user-1").Return(existing, nil)

		bet, err := service.PlaceBet(ctx, "user-1", "pool-1", "Galo")

		assert.ErrorIs(t, err, ErrDuplicateBet)
		assert.Nil(t, bet)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(time.Hour), now.Add(2*time.Hour))
		user := createTestMember("user-1", 5)
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockBetRepo.On("GetByPoolAndUser", ctx, "pool-1", "user-1").Return(nil, nil)
		mockUserRepo.On("GetByID", ctx, "user-1").Return(user, nil)

		bet, err := service.PlaceBet(ctx, "user-1", "pool-1", "Galo")

		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Nil(t, bet)
		mockUserRepo.AssertNotCalled(t, "DeductBalance")
	})
}

func TestPoolService_Settle_SplitsPrizeAmongWinners(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, mockTxRepo, mockAlertRepo := createTestPoolService()
	service.(*poolService).now = fixedClock(now)
	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	creator := createTestMember("creator-1", 0)

	stake := decimal.NewFromInt(10)
	bets := []*models.Bet{
		{ID: "b1", PoolID: "pool-1", UserID: "u1", OptionSelected: "Galo", Amount: stake},
		{ID: "b2", PoolID: "pool-1", UserID: "u2", OptionSelected: "Galo", Amount: stake},
		{ID: "b3", PoolID: "pool-1", UserID: "u3", OptionSelected: "Cruzeiro", Amount: stake},
	}

	mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
	mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
	mockBetRepo.On("GetByPool", ctx, "pool-1").Return(bets, nil)

	// 30 collected, 27 after the platform fee, 13.50 per winner
	expectedPrize := decimal.NewFromFloat(13.5)
	mockUserRepo.On("AddWithdrawable", ctx, "u1", decimalEq(expectedPrize)).Return(nil)
	mockUserRepo.On("AddWithdrawable", ctx, "u2", decimalEq(expectedPrize)).Return(nil)
	mockTxRepo.On("Create", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
		return tx.Type == models.TransactionTypePrize &&
			tx.Status == models.TransactionStatusApproved &&
			tx.Amount.Equal(expectedPrize) &&
			tx.ReferenceID != nil && *tx.ReferenceID == "pool-1"
	})).Return(nil).Times(2)
	mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(true, nil)
	mockAlertRepo.On("DeleteByReference", ctx, "pool-1").Return(nil)

	result, err := service.Settle(ctx, "pool-1", "Galo", "creator-1")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.TotalCollected.Equal(decimal.NewFromInt(30)))
	assert.True(t, result.PrizePool.Equal(decimal.NewFromInt(27)))
	assert.True(t, result.IndividualPrize.Equal(expectedPrize))
	assert.Len(t, result.Winners, 2)
	assert.True(t, result.PrizePaid.Equal(decimal.NewFromInt(27)))
	// Conservation: retained fee is exactly what was collected minus what was paid
	assert.True(t, result.TotalCollected.Sub(result.PrizePaid).Equal(decimal.NewFromInt(3)))

	mockUoW.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockPoolRepo.AssertExpectations(t)
	mockBetRepo.AssertExpectations(t)
	mockTxRepo.AssertExpectations(t)
	mockAlertRepo.AssertExpectations(t)
}

func TestPoolService_Settle_NoWinners_PotRetained(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, mockAlertRepo := createTestPoolService()
	service.(*poolService).now = fixedClock(now)
	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	creator := createTestMember("creator-1", 0)

	bets := []*models.Bet{
		{ID: "b1", PoolID: "pool-1", UserID: "u1", OptionSelected: "Cruzeiro", Amount: decimal.NewFromInt(10)},
		{ID: "b2", PoolID: "pool-1", UserID: "u2", OptionSelected: "Cruzeiro", Amount: decimal.NewFromInt(10)},
	}

	mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
	mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
	mockBetRepo.On("GetByPool", ctx, "pool-1").Return(bets, nil)
	mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(true, nil)
	mockAlertRepo.On("DeleteByReference", ctx, "pool-1").Return(nil)

	result, err := service.Settle(ctx, "pool-1", "Galo", "creator-1")

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result.Winners)
	assert.True(t, result.PrizePaid.IsZero())
	assert.True(t, result.TotalCollected.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, models.PoolStatusFinished, result.Pool.Status)

	mockUserRepo.AssertNotCalled(t, "AddWithdrawable")
}

func TestPoolService_Settle_EdgeCases(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

	t.Run("already finished is a silent no-op", func(t *testing.T) {
		service, _, mockUoW, _, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		winner := "Galo"
		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		pool.Status = models.PoolStatusFinished
		pool.WinnerOption = &winner
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)

		result, err := service.Settle(ctx, "pool-1", "Cruzeiro", "creator-1")

		assert.NoError(t, err)
		assert.Nil(t, result)
		mockPoolRepo.AssertNotCalled(t, "Finalize")
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("zero bets still finishes", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, mockAlertRepo := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		setupBasicTransactionMocks(mockUoW)

		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		creator := createTestMember("creator-1", 0)
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
		mockBetRepo.On("GetByPool", ctx, "pool-1").Return([]*models.Bet{}, nil)
		mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(true, nil)
		mockAlertRepo.On("DeleteByReference", ctx, "pool-1").Return(nil)

		result, err := service.Settle(ctx, "pool-1", "Galo", "creator-1")

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.True(t, result.TotalCollected.IsZero())
		assert.True(t, result.PrizePaid.IsZero())
	})

	t.Run("winner option must belong to the pool", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		creator := createTestMember("creator-1", 0)
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)

		result, err := service.Settle(ctx, "pool-1", "Flamengo", "creator-1")

		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, result)
	})

	t.Run("only creator or admin may settle", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, _, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		outsider := createTestMember("user-9", 0)
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "user-9").Return(outsider, nil)

		result, err := service.Settle(ctx, "pool-1", "Galo", "user-9")

		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.Nil(t, result)
	})

	t.Run("admin may settle another creator's pool", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, mockAlertRepo := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		setupBasicTransactionMocks(mockUoW)

		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		admin := createTestMember("admin-1", 0)
		admin.Role = models.RoleAdmin
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "admin-1").Return(admin, nil)
		mockBetRepo.On("GetByPool", ctx, "pool-1").Return([]*models.Bet{}, nil)
		mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(true, nil)
		mockAlertRepo.On("DeleteByReference", ctx, "pool-1").Return(nil)

		result, err := service.Settle(ctx, "pool-1", "Galo", "admin-1")

		assert.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("credit failure rolls back", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		creator := createTestMember("creator-1", 0)
		bets := []*models.Bet{
			{ID: "b1", PoolID: "pool-1", UserID: "u1", OptionSelected: "Galo", Amount: decimal.NewFromInt(10)},
		}
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
		mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(true, nil)
		mockBetRepo.On("GetByPool", ctx, "pool-1").Return(bets, nil)
		mockUserRepo.On("AddWithdrawable", ctx, "u1", mock.Anything).Return(errors.New("database error"))

		result, err := service.Settle(ctx, "pool-1", "Galo", "creator-1")

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "failed to credit prize")
		mockUoW.AssertNotCalled(t, "Commit")
	})

	t.Run("losing the finish claim pays nothing", func(t *testing.T) {
		service, _, mockUoW, mockUserRepo, mockPoolRepo, mockBetRepo, _, _ := createTestPoolService()
		service.(*poolService).now = fixedClock(now)
		mockUoW.On("Begin", mock.Anything).Return(nil)
		mockUoW.On("Rollback").Return(nil)

		// The stored status still reads unfinished, but another settlement
		// claims the transition first.
		pool := createTestPool("pool-1", now.Add(-3*time.Hour), now.Add(-2*time.Hour))
		creator := createTestMember("creator-1", 0)
		mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil)
		mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
		mockPoolRepo.On("Finalize", ctx, "pool-1", "Galo").Return(false, nil)

		result, err := service.Settle(ctx, "pool-1", "Galo", "creator-1")

		assert.NoError(t, err)
		assert.Nil(t, result)
		mockBetRepo.AssertNotCalled(t, "GetByPool")
		mockUserRepo.AssertNotCalled(t, "AddWithdrawable")
		mockUoW.AssertNotCalled(t, "Commit")
	})
}

func TestPoolService_CreatePool_Validation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)
	eventTime := now.Add(2 * time.Hour)
	stake := decimal.NewFromInt(10)

	cases := []struct {
		name      string
		poolName  string
		betAmount decimal.Decimal
		options   []string
		deadline  time.Time
	}{
		{"empty name", "  ", stake, []string{"A", "B"}, deadline},
		{"zero amount", "Jogo", decimal.Zero, []string{"A", "B"}, deadline},
		{"negative amount", "Jogo", decimal.NewFromInt(-5), []string{"A", "B"}, deadline},
		{"one option", "Jogo", stake, []string{"A"}, deadline},
		{"three options", "Jogo", stake, []string{"A", "B", "C"}, deadline},
		{"blank option", "Jogo", stake, []string{"A", " "}, deadline},
		{"duplicate options", "Jogo", stake, []string{"A", "A"}, deadline},
		{"deadline in the past", "Jogo", stake, []string{"A", "B"}, now.Add(-time.Minute)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _, _, mockPoolRepo, _, _, _ := createTestPoolService()
			service.(*poolService).now = fixedClock(now)

			pool, err := service.CreatePool(ctx, "creator-1", tc.poolName, "futebol", tc.deadline, eventTime, tc.betAmount, tc.options)

			assert.ErrorIs(t, err, ErrValidation)
			assert.Nil(t, pool)
			mockPoolRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestPoolService_CreatePool_Success(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	service, _, mockUoW, mockUserRepo, mockPoolRepo, _, _, _ := createTestPoolService()
	service.(*poolService).now = fixedClock(now)
	setupBasicTransactionMocks(mockUoW)

	creator := createTestMember("creator-1", 0)
	mockUserRepo.On("GetByID", ctx, "creator-1").Return(creator, nil)
	mockPoolRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Pool) bool {
		return p.ID != "" && p.CreatorID == "creator-1" &&
			p.Status == models.PoolStatusOpen &&
			len(p.Options) == 2 && p.Options[0] == "Galo" && p.Options[1] == "Cruzeiro"
	})).Return(nil)

	pool, err := service.CreatePool(ctx, "creator-1", "Galo x Cruzeiro", "futebol",
		now.Add(time.Hour), now.Add(2*time.Hour), decimal.NewFromInt(10), []string{" Galo ", " Cruzeiro "})

	assert.NoError(t, err)
	assert.NotNil(t, pool)
	assert.Equal(t, models.PoolStatusOpen, pool.Status)
}

func TestPoolService_StatusDerivation(t *testing.T) {
	ctx := context.Background()
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	eventTime := deadline.Add(2 * time.Hour)

	service, _, mockUoW, _, mockPoolRepo, _, _, mockAlertRepo := createTestPoolService()
	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", deadline, eventTime)
	mockPoolRepo.On("GetByID", ctx, "pool-1").Return(pool, nil).Times(3)
	mockAlertRepo.On("GetByReference", ctx, "pool-1").Return(nil, nil)

	// Before the deadline the pool reads as open
	service.(*poolService).now = fixedClock(deadline.Add(-time.Minute))
	got, err := service.GetPool(ctx, "pool-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PoolStatusOpen, got.Status)

	// At the deadline it flips to awaiting result, with nothing written back
	service.(*poolService).now = fixedClock(deadline)
	got, err = service.GetPool(ctx, "pool-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PoolStatusAwaitingResult, got.Status)

	// Reading twice yields the same derivation
	got, err = service.GetPool(ctx, "pool-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PoolStatusAwaitingResult, got.Status)

	mockPoolRepo.AssertNotCalled(t, "Finalize")
}

func TestPoolService_RunStatusScan_RaisesOverdueAlert(t *testing.T) {
	ctx := context.Background()
	eventTime := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	deadline := eventTime.Add(-2 * time.Hour)

	service, _, mockUoW, _, mockPoolRepo, _, _, mockAlertRepo := createTestPoolService()
	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", deadline, eventTime)
	mockPoolRepo.On("GetUnfinished", ctx).Return([]*models.Pool{pool}, nil)

	// One hour past the event time, first scan raises a critical alert
	service.(*poolService).now = fixedClock(eventTime.Add(models.OverdueGrace))
	mockAlertRepo.On("GetByReference", ctx, "pool-1").Return(nil, nil).Once()
	mockAlertRepo.On("Create", ctx, mock.MatchedBy(func(a *models.SystemAlert) bool {
		return a.Type == models.AlertTypeCritical &&
			a.ReferenceID != nil && *a.ReferenceID == "pool-1" &&
			a.Message != ""
	})).Return(nil).Once()

	err := service.RunStatusScan(ctx)
	assert.NoError(t, err)

	// A second scan finds the existing alert and does not duplicate it
	existing := &models.SystemAlert{ID: "alert-1", Type: models.AlertTypeCritical}
	mockAlertRepo.On("GetByReference", ctx, "pool-1").Return(existing, nil).Once()

	err = service.RunStatusScan(ctx)
	assert.NoError(t, err)

	mockAlertRepo.AssertExpectations(t)
	mockAlertRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestPoolService_RunStatusScan_NotYetOverdue(t *testing.T) {
	ctx := context.Background()
	eventTime := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC)
	deadline := eventTime.Add(-2 * time.Hour)

	service, _, mockUoW, _, mockPoolRepo, _, _, mockAlertRepo := createTestPoolService()
	setupBasicTransactionMocks(mockUoW)

	pool := createTestPool("pool-1", deadline, eventTime)
	mockPoolRepo.On("GetUnfinished", ctx).Return([]*models.Pool{pool}, nil)

	// Past the event but still inside the grace period
	service.(*poolService).now = fixedClock(eventTime.Add(30 * time.Minute))

	err := service.RunStatusScan(ctx)

	assert.NoError(t, err)
	mockAlertRepo.AssertNotCalled(t, "GetByReference")
	mockAlertRepo.AssertNotCalled(t, "Create")
}
