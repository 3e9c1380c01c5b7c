package testutil

import (
	"time"

	"bolao/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestUser creates a test member with default values
func CreateTestUser(email string) *models.User {
	return &models.User{
		ID:                  uuid.NewString(),
		Name:                "Membro Teste",
		Email:               email,
		PasswordHash:        "$2a$04$notarealhashnotarealhashnotarealhash",
		Whatsapp:            "31999990000",
		Role:                models.RoleUser,
		Balance:             decimal.Zero,
		WithdrawableBalance: decimal.Zero,
	}
}

// CreateTestUserWithBalance creates a test member with a specific balance
func CreateTestUserWithBalance(email string, balance int64) *models.User {
	user := CreateTestUser(email)
	user.Balance = decimal.NewFromInt(balance)
	return user
}

// CreateTestPool creates an open pool with two options and a fixed stake
func CreateTestPool(creatorID string, deadline time.Time) *models.Pool {
	return &models.Pool{
		ID:            uuid.NewString(),
		CreatorID:     creatorID,
		Name:          "Galo x Cruzeiro",
		Modality:      "futebol",
		DateTime:      deadline,
		EventDateTime: deadline.Add(2 * time.Hour),
		BetAmount:     decimal.NewFromInt(10),
		Options:       []string{"Galo", "Cruzeiro"},
		Status:        models.PoolStatusOpen,
	}
}

// CreateTestBet creates a bet on the pool's first option
func CreateTestBet(pool *models.Pool, userID string) *models.Bet {
	return &models.Bet{
		ID:             uuid.NewString(),
		PoolID:         pool.ID,
		UserID:         userID,
		OptionSelected: pool.Options[0],
		Amount:         pool.BetAmount,
	}
}
