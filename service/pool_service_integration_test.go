package service_test

import (
	"context"
	"testing"
	"time"

	"bolao/events"
	"bolao/models"
	"bolao/repository"
	"bolao/repository/testutil"
	"bolao/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolLifecycle_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(testDB.DB, eventBus)

	userService := service.NewUserService(uowFactory)
	ledgerService := service.NewLedgerService(uowFactory)
	poolService := service.NewPoolService(uowFactory)

	register := func(email string) *models.User {
		u, err := userService.Register(ctx, "Membro "+email, email, "senha123", "31999990000")
		require.NoError(t, err)
		return u
	}

	fund := func(u *models.User, amount int64) {
		tx, err := ledgerService.RequestDeposit(ctx, u.ID, decimal.NewFromInt(amount), "")
		require.NoError(t, err)
		require.NoError(t, ledgerService.ApproveTransaction(ctx, tx.ID))
	}

	creator := register("criador@example.com")
	winner1 := register("v1@example.com")
	winner2 := register("v2@example.com")
	loser := register("perdedor@example.com")

	for _, u := range []*models.User{winner1, winner2, loser} {
		fund(u, 100)
	}

	pool, err := poolService.CreatePool(ctx, creator.ID, "Galo x Cruzeiro", "futebol",
		time.Now().Add(time.Hour), time.Now().Add(2*time.Hour),
		decimal.NewFromInt(10), []string{"Galo", "Cruzeiro"})
	require.NoError(t, err)

	_, err = poolService.PlaceBet(ctx, winner1.ID, pool.ID, "Galo")
	require.NoError(t, err)
	_, err = poolService.PlaceBet(ctx, winner2.ID, pool.ID, "Galo")
	require.NoError(t, err)
	_, err = poolService.PlaceBet(ctx, loser.ID, pool.ID, "Cruzeiro")
	require.NoError(t, err)

	t.Run("stakes were debited", func(t *testing.T) {
		for _, id := range []string{winner1.ID, winner2.ID, loser.ID} {
			u, err := userService.GetUser(ctx, id)
			require.NoError(t, err)
			assert.True(t, u.Balance.Equal(decimal.NewFromInt(90)))
		}
	})

	t.Run("duplicate bet rejected", func(t *testing.T) {
		_, err := poolService.PlaceBet(ctx, winner1.ID, pool.ID, "Cruzeiro")
		assert.ErrorIs(t, err, service.ErrDuplicateBet)
	})

	result, err := poolService.Settle(ctx, pool.ID, "Galo", creator.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	t.Run("prize math", func(t *testing.T) {
		assert.True(t, result.TotalCollected.Equal(decimal.NewFromInt(30)))
		assert.True(t, result.PrizePool.Equal(decimal.NewFromInt(27)))
		assert.True(t, result.IndividualPrize.Equal(decimal.NewFromFloat(13.5)))
		assert.Len(t, result.Winners, 2)
	})

	t.Run("winners credited on the withdrawable balance only", func(t *testing.T) {
		for _, id := range []string{winner1.ID, winner2.ID} {
			u, err := userService.GetUser(ctx, id)
			require.NoError(t, err)
			assert.True(t, u.WithdrawableBalance.Equal(decimal.NewFromFloat(13.5)))
			assert.True(t, u.Balance.Equal(decimal.NewFromInt(90)))
		}

		u, err := userService.GetUser(ctx, loser.ID)
		require.NoError(t, err)
		assert.True(t, u.WithdrawableBalance.IsZero())
	})

	t.Run("pool is finished", func(t *testing.T) {
		got, err := poolService.GetPool(ctx, pool.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PoolStatusFinished, got.Status)
		require.NotNil(t, got.WinnerOption)
		assert.Equal(t, "Galo", *got.WinnerOption)
	})

	t.Run("second settlement is a no-op and pays nothing", func(t *testing.T) {
		again, err := poolService.Settle(ctx, pool.ID, "Cruzeiro", creator.ID)
		require.NoError(t, err)
		assert.Nil(t, again)

		u, err := userService.GetUser(ctx, winner1.ID)
		require.NoError(t, err)
		assert.True(t, u.WithdrawableBalance.Equal(decimal.NewFromFloat(13.5)))
	})

	t.Run("winner can withdraw the prize", func(t *testing.T) {
		tx, err := ledgerService.RequestWithdrawal(ctx, winner1.ID, decimal.NewFromFloat(13.5))
		require.NoError(t, err)

		u, err := userService.GetUser(ctx, winner1.ID)
		require.NoError(t, err)
		assert.True(t, u.WithdrawableBalance.IsZero())

		// Rejection restores the reservation
		require.NoError(t, ledgerService.RejectTransaction(ctx, tx.ID))
		u, err = userService.GetUser(ctx, winner1.ID)
		require.NoError(t, err)
		assert.True(t, u.WithdrawableBalance.Equal(decimal.NewFromFloat(13.5)))
	})
}
